// Package config provides environment-based configuration for minibot.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default robot daemon settings.
const (
	DefaultRobotPort = "8000"
	DefaultWebPort   = "8080"
)

// RobotIP returns the robot IP from ROBOT_IP env var.
// Falls back to the provided default if not set.
func RobotIP(defaultIP string) string {
	if ip := os.Getenv("ROBOT_IP"); ip != "" {
		return ip
	}
	return defaultIP
}

// RobotAPIURL returns the robot daemon HTTP API URL.
func RobotAPIURL(robotIP string) string {
	return fmt.Sprintf("http://%s:%s", robotIP, DefaultRobotPort)
}

// WebPort returns the dashboard listen port from PORT env var or default.
func WebPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// DeepgramAPIKey returns the Deepgram API key, empty if unset.
func DeepgramAPIKey() string {
	return os.Getenv("DEEPGRAM_API_KEY")
}

// ElevenLabsAPIKey returns the ElevenLabs API key, empty if unset.
func ElevenLabsAPIKey() string {
	return os.Getenv("ELEVENLABS_API_KEY")
}

// ElevenLabsVoiceID returns the configured ElevenLabs voice, empty if unset.
func ElevenLabsVoiceID() string {
	return os.Getenv("ELEVENLABS_VOICE_ID")
}

// OpenAIAPIKey returns the OpenAI API key, empty if unset.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// BoolEnv returns the boolean value of the named env var, or the default
// when unset or unparseable. Accepts the forms strconv.ParseBool accepts.
func BoolEnv(name string, def bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
