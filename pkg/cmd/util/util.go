// Package util holds helpers shared by the commands
package util

import (
	"os"
	"sync"
	"time"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/config"
	"github.com/apex-racing/grcup-analytics/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// NewLogger creates a logger according to the configured log format
func NewLogger(level string, defaultVal log.Level) *log.Logger {
	opts := []log.Option{
		log.WithCaller(true),
		log.AddCallerSkip(1),
		log.WithFilterRules(config.LogFilter),
	}
	if config.LogFormat == "json" {
		return log.New(os.Stderr, ParseLogLevel(level, defaultVal), opts...)
	}
	return log.DevLogger(os.Stderr, ParseLogLevel(level, defaultVal), opts...)
}

// SetupLogger replaces the default logger
func SetupLogger() *log.Logger {
	logger := NewLogger(config.LogLevel, log.InfoLevel)
	log.ResetDefault(logger)
	return logger
}

// WaitForRequiredServices blocks until the hosts referenced by urls accept
// tcp connections. Urls without a network host (file paths, sqlite) are
// ignored.
func WaitForRequiredServices(urls ...string) error {
	timeout, err := config.WaitTimeout()
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	addrs := []string{}
	for _, u := range urls {
		if addr := utils.ExtractFromDBURL(u); addr != "" {
			addrs = append(addrs, addr)
		}
		if addr := utils.ExtractFromNatsURL(u); addr != "" {
			addrs = append(addrs, addr)
		}
	}

	wg := sync.WaitGroup{}
	errs := make([]error, len(addrs))
	for i, addr := range addrs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = utils.WaitForTCP(addr, timeout)
		}()
	}
	log.Debug("Waiting for connection checks to return", log.Strings("addrs", addrs))
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	log.Debug("Required services are available")
	return nil
}
