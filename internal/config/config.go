package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "PATHFINDER_"

type Application struct {
	Addr     string   `koanf:"addr"`
	Source   Source   `koanf:"source"`
	Google   Google   `koanf:"google"`
	Database Database `koanf:"db"`
}

// Source describes the upstream endpoint returning {status, data} event envelopes.
type Source struct {
	Url      string        `koanf:"url"`
	Timeout  time.Duration `koanf:"timeout"`
	Retries  int           `koanf:"retries"`
	Schedule string        `koanf:"schedule"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	RefreshToken string `koanf:"refreshtoken"`
	CalendarId   string `koanf:"calendarid"`
}

// Enabled reports whether enough credentials are present to publish events.
func (g Google) Enabled() bool {
	return g.ClientId != "" && g.ClientSecret != "" && g.RefreshToken != ""
}

type Database struct {
	Enabled       bool   `koanf:"enabled"`
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	User          string `koanf:"user"`
	Pass          string `koanf:"pass"`
	Name          string `koanf:"name"`
	Schema        string `koanf:"schema"`
	KeepSnapshots int    `koanf:"keepsnapshots"`
}

func Defaults() Application {
	return Application{
		Addr: ":8181",
		Source: Source{
			Url:      "http://localhost:8000/results",
			Timeout:  15 * time.Second,
			Retries:  3,
			Schedule: "@every 30m",
		},
		Google: Google{
			CalendarId: "primary",
		},
		Database: Database{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			User:          "pathfinder",
			Pass:          "",
			Name:          "pathfinder",
			Schema:        "pathfinder",
			KeepSnapshots: 10,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
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

	return app, nil
}
