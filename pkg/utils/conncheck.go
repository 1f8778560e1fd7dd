package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/apex-racing/grcup-analytics/log"
)

// WaitForTCP polls addr until a tcp connection can be established or
// timeout is reached
func WaitForTCP(addr string, timeout time.Duration) error {
	var d net.Dialer
	return poll("tcp", addr, timeout, 200*time.Millisecond, func(ctx context.Context) error {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	})
}

// WaitForHTTPResponse polls url until a GET request returns a response
// with a status below 500 or timeout is reached
func WaitForHTTPResponse(url string, timeout time.Duration) error {
	cli := &http.Client{Timeout: time.Second}
	return poll("http", url, timeout, 500*time.Millisecond, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return err
		}
		resp, err := cli.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return nil
	})
}

//nolint:whitespace // editor/linter issue
func poll(
	kind, target string, timeout, interval time.Duration, check func(context.Context) error,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	start := time.Now()
	l := log.Default().Named("conncheck")
	l.Debug("waiting for "+kind,
		log.String("target", target),
		log.Duration("timeout", timeout))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var err error
	for {
		if err = check(ctx); err == nil {
			l.Debug(kind+" check successful",
				log.String("target", target),
				log.Duration("duration", time.Since(start)))
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s could not be reached after %v: %w", target, timeout, err)
		case <-ticker.C:
		}
	}
}

// ExtractFromNatsURL returns host:port of a nats:// url, the port defaults
// to 4222
func ExtractFromNatsURL(url string) string {
	param := resolveRegex(
		"^nats://(.*@)?(?P<addr>(?P<host>[^:/]*?)(:(?P<port>\\d+))?)(/.*)?$", url)
	if len(param) == 0 || param["host"] == "" {
		return ""
	}
	if port, ok := param["port"]; ok && port != "" {
		return param["addr"]
	}
	return fmt.Sprintf("%s:4222", param["addr"])
}

// ExtractFromDBURL returns host:port of a postgresql:// url, the port
// defaults to 5432
func ExtractFromDBURL(url string) string {
	param := resolveRegex(
		"^postgres(ql)?://(.*@)(?P<addr>(?P<host>.*?)(:(?P<port>\\d+))?)/.*", url)
	if len(param) == 0 {
		return ""
	}
	if port, ok := param["port"]; ok && port != "" {
		return param["addr"] // if port is found, the addr contains our wanted value
	}
	return fmt.Sprintf("%s:5432", param["addr"])
}

func resolveRegex(regEx, url string) (paramsMap map[string]string) {
	compRegEx := regexp.MustCompile(regEx)
	match := compRegEx.FindStringSubmatch(url)
	if match == nil {
		return map[string]string{}
	}
	paramsMap = make(map[string]string)
	for i, name := range compRegEx.SubexpNames() {
		if i > 0 && name != "" {
			paramsMap[name] = match[i]
		}
	}
	return paramsMap
}
