package server

import (
	"context"
	"crypto/tls"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/config"
	"github.com/apex-racing/grcup-analytics/pkg/utils/certs/traefik"
)

type certs struct {
	log  *log.Logger
	cert *tls.Certificate
	mu   sync.RWMutex
}

// newTLSConfig returns nil if no certificate is configured. The
// certificate is reloaded when the configured files change.
func newTLSConfig(ctx context.Context) *tls.Config {
	c := &certs{log: log.Default().Named("http.certs")}
	if !c.loadCert() {
		return nil
	}
	go c.watchAndReloadCerts(ctx)
	return &tls.Config{
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			c.mu.RLock()
			defer c.mu.RUnlock()
			return c.cert, nil
		},
		MinVersion: tls.VersionTLS13,
	}
}

func (c *certs) watchAndReloadCerts(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.Error("could not create fsnotify watcher", log.ErrorField(err))
		return
	}
	defer watcher.Close()
	for _, file := range []string{config.TLSCertFile, config.TLSKeyFile, config.TraefikCerts} {
		if file == "" {
			continue
		}
		if err := watcher.Add(file); err != nil {
			c.log.Error("could not watch file", log.String("file", file), log.ErrorField(err))
		}
	}
	for {
		select {
		case <-ctx.Done():
			c.log.Debug("context done, stopping cert reload")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) {
				c.log.Info("cert file changed, reloading cert", log.String("file", event.Name))
				c.loadCert()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log.Error("watcher error", log.ErrorField(err))
		}
	}
}

// loadCert keeps the previous certificate if loading fails
func (c *certs) loadCert() bool {
	var cert tls.Certificate
	var err error
	switch {
	case config.TraefikCerts != "" && config.TraefikCertDomain != "":
		c.log.Info("Looking up traefik certs",
			log.String("file", config.TraefikCerts),
			log.String("domain", config.TraefikCertDomain))
		cert, err = traefik.LoadFile(config.TraefikCerts, config.TraefikCertDomain)
	case config.TLSCertFile != "" && config.TLSKeyFile != "":
		c.log.Info("Loading cert",
			log.String("key", config.TLSKeyFile),
			log.String("cert", config.TLSCertFile))
		cert, err = tls.LoadX509KeyPair(config.TLSCertFile, config.TLSKeyFile)
	default:
		return false
	}
	if err != nil {
		c.log.Error("could not load certificate", log.ErrorField(err))
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cert = &cert
	return true
}
