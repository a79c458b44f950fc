package handlers

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

const frontendCollaborator = "frontend"

type latencyObserver interface {
	ObserveCollaborator(collaborator string, elapsed time.Duration)
}

// Frontend forwards page requests that cleared the guard to the web frontend.
// Identity headers set by the guard travel with the proxied request.
func Frontend(upstream string, logg *logger.Logger, observer latencyObserver) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse frontend url")
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "frontend url must be absolute")
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, http.ErrAbortHandler) {
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"upstream": target.Host,
				"error":    err.Error(),
			})
			logg.Warn(ctx, "frontend.proxy.failed")
		}
		w.WriteHeader(http.StatusBadGateway)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		proxy.ServeHTTP(w, r)
		if observer != nil {
			observer.ObserveCollaborator(frontendCollaborator, time.Since(start))
		}
	}), nil
}
