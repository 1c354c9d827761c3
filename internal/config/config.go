package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string `koanf:"listen"`
	LogLevel string `koanf:"loglevel"`
	// Timezone interprets Notion date strings that carry no offset.
	Timezone string `koanf:"timezone"`
	// Tokens maps valid bearer tokens to the identity they belong to.
	Tokens map[string]string `koanf:"tokens"`
	Notion Notion            `koanf:"notion"`
	Cache  Cache             `koanf:"cache"`
}

type Notion struct {
	APIKey        string        `koanf:"apikey"`
	Version       string        `koanf:"version"`
	Timeout       time.Duration `koanf:"timeout"`
	RetryAttempts int           `koanf:"retryattempts"`
	RetryDelay    time.Duration `koanf:"retrydelay"`
}

type Cache struct {
	// FetchTTL bounds how long raw fetch results are reused.
	FetchTTL time.Duration `koanf:"fetchttl"`
	// FeedTTL bounds how long rendered feed text is reused.
	FeedTTL  time.Duration `koanf:"feedttl"`
	Capacity int           `koanf:"capacity"`
}

func defaults() Application {
	return Application{
		Listen:   ":8080",
		LogLevel: "info",
		Timezone: "Europe/Ljubljana",
		Notion: Notion{
			Version:       "2022-06-28",
			Timeout:       30 * time.Second,
			RetryAttempts: 5,
			RetryDelay:    time.Second,
		},
		Cache: Cache{
			FetchTTL: 10 * time.Minute,
			FeedTTL:  time.Minute,
			Capacity: 128,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config defaults: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "NOTIONCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "NOTIONCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	// NOTION_API_KEY and TOKENS predate the NOTIONCAL_ prefix and are
	// still honored.
	if key := os.Getenv("NOTION_API_KEY"); key != "" && app.Notion.APIKey == "" {
		app.Notion.APIKey = key
	}
	if tokens := os.Getenv("TOKENS"); tokens != "" {
		if err := json.Unmarshal([]byte(tokens), &app.Tokens); err != nil {
			return Application{}, fmt.Errorf("parsing TOKENS: %w", err)
		}
	}

	return app, nil
}

func (a Application) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Listen, validation.Required),
		validation.Field(&a.Timezone, validation.Required, validation.By(validTimezone)),
		validation.Field(&a.Notion),
	)
}

func (n Notion) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.APIKey, validation.Required),
		validation.Field(&n.RetryAttempts, validation.Required, validation.Min(1)),
	)
}

func validTimezone(value interface{}) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown timezone %q", name)
	}
	return nil
}
