package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DBConfig struct {
	Path     string `mapstructure:"path"`
	PoolSize int    `mapstructure:"pool_size"`
}

type AudioConfig struct {
	SampleRate       int     `mapstructure:"sample_rate"`
	Channels         int     `mapstructure:"channels"`
	FrameSize        int     `mapstructure:"frame_size"`
	MaxPhraseSecs    int     `mapstructure:"max_phrase_secs"`
	SilenceThreshold int     `mapstructure:"silence_threshold"`
	SilenceSecs      float64 `mapstructure:"silence_secs"`
	BufferKB         int     `mapstructure:"buffer_kb"`
}

type VoiceConfig struct {
	STTProvider  string `mapstructure:"stt_provider"` // whisper | openai
	STTURL       string `mapstructure:"stt_url"`
	TTSProvider  string `mapstructure:"tts_provider"` // piper | openai
	TTSURL       string `mapstructure:"tts_url"`
	TTSVoice     string `mapstructure:"tts_voice"`
	OpenAIAPIKey string `mapstructure:"open_ai_api_key"`
	Language     string `mapstructure:"language"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

func (v VoiceConfig) Timeout() time.Duration {
	if v.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(v.TimeoutSecs) * time.Second
}

type Settings struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"database"`
	Audio  AudioConfig  `mapstructure:"audio"`
	Voice  VoiceConfig  `mapstructure:"voice"`
	Env    string       `mapstructure:"env"`
	Debug  bool         `mapstructure:"debug" default:"false"`
}

func Load() (*Settings, error) {
	// Load settings from a configuration file or environment variables
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	settings.applyDefaults()

	return &settings, nil
}

func (s *Settings) applyDefaults() {
	if s.Server.Port == 0 {
		s.Server.Port = 7878
	}
	if s.Server.Host == "" {
		s.Server.Host = "127.0.0.1"
	}
	if s.DB.Path == "" {
		s.DB.Path = "notes.db"
	}
	if s.DB.PoolSize == 0 {
		s.DB.PoolSize = 4
	}
	if s.Audio.SampleRate == 0 {
		s.Audio.SampleRate = 16000
	}
	if s.Audio.Channels == 0 {
		s.Audio.Channels = 1
	}
	if s.Audio.FrameSize == 0 {
		s.Audio.FrameSize = 1024
	}
	if s.Audio.MaxPhraseSecs == 0 {
		s.Audio.MaxPhraseSecs = 10
	}
	if s.Audio.SilenceThreshold == 0 {
		s.Audio.SilenceThreshold = 500
	}
	if s.Audio.SilenceSecs == 0 {
		s.Audio.SilenceSecs = 1
	}
	if s.Audio.BufferKB == 0 {
		s.Audio.BufferKB = 512
	}
	if s.Voice.STTProvider == "" {
		s.Voice.STTProvider = "whisper"
	}
	if s.Voice.TTSProvider == "" {
		s.Voice.TTSProvider = "piper"
	}
	if s.Voice.Language == "" {
		s.Voice.Language = "en"
	}
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
