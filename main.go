package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/windwizard/windwizard/pkg/agent"
	"github.com/windwizard/windwizard/pkg/alert"
	"github.com/windwizard/windwizard/pkg/handlers"
	"github.com/windwizard/windwizard/pkg/metrics"
	"github.com/windwizard/windwizard/pkg/notify"
	"github.com/windwizard/windwizard/pkg/openmeteo"
	"github.com/windwizard/windwizard/pkg/profile"
	"github.com/windwizard/windwizard/pkg/spots"
	"github.com/windwizard/windwizard/pkg/stormglass"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	StormglassKey string `envconfig:"STORMGLASS_API_KEY"`
	ProfilePath   string `default:"profiles.json"`

	// Cron spec for the stoke alert sweep; empty disables it.
	AlertSchedule string `default:"@hourly"`

	TwilioSID    string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFrom   string `envconfig:"TWILIO_FROM_NUMBER"`
	SendGridKey  string `envconfig:"SENDGRID_API_KEY"`
	SendGridFrom string `envconfig:"SENDGRID_FROM_EMAIL"`
}

func main() {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	profiles, err := profile.Open(env.ProfilePath)
	if err != nil {
		log.Fatalf("Failed to open profile store %q: %v", env.ProfilePath, err)
	}

	tides := stormglass.New(env.StormglassKey)
	wind := openmeteo.New()
	notifier := notify.New(notify.Config{
		TwilioSID:    env.TwilioSID,
		TwilioToken:  env.TwilioToken,
		TwilioFrom:   env.TwilioFrom,
		SendGridKey:  env.SendGridKey,
		SendGridFrom: env.SendGridFrom,
	})
	planner := &agent.Planner{
		Tides:    tides,
		Wind:     wind,
		Profiles: profiles,
		Notifier: notifier,
	}

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	r.Handle("/metrics", promhttp.Handler())
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, handlers.Deps{
		Tides:    tides,
		Wind:     wind,
		DB:       spots.PostgresFromEnvOrDie(),
		Profiles: profiles,
		Planner:  planner,
	})

	if env.AlertSchedule != "" {
		sweeper := alert.NewSweeper(planner, profiles)
		stop, err := sweeper.Start(env.AlertSchedule)
		if err != nil {
			log.Fatalf("Failed to start alert sweeper: %v", err)
		}
		defer stop()
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Listening and serving on %s%s", srv.Addr, env.Prefix)
	log.Fatal(srv.ListenAndServe())
}
