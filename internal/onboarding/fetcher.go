package onboarding

import (
	"bytes"
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
)

const (
	addressPath  = "/api/provider/address"
	businessPath = "/api/provider/business"
	slotsPath    = "/api/provider/slots"

	collaboratorAddress  = "address"
	collaboratorBusiness = "business"
	collaboratorSlots    = "slots"
)

// Fetcher derives a provider's Profile from the backend.
type Fetcher interface {
	Fetch(ctx context.Context, token string) (Profile, error)
}

type jsonGetter interface {
	GetJSON(ctx context.Context, collaborator, path, token string, dest any) error
}

type backendFetcher struct {
	backend jsonGetter
}

// NewFetcher returns a Fetcher that queries the three profile endpoints concurrently.
func NewFetcher(backend jsonGetter) Fetcher {
	return &backendFetcher{backend: backend}
}

// Fetch fails with COLLABORATOR_UNAVAILABLE as soon as any endpoint errors or answers
// with an unexpected shape; the remaining calls are cancelled.
func (f *backendFetcher) Fetch(ctx context.Context, token string) (Profile, error) {
	var profile Profile
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		body, err := f.get(gctx, collaboratorAddress, addressPath, token)
		if err != nil {
			return err
		}
		has, err := hasAddress(body)
		if err != nil {
			return unavailable(collaboratorAddress, err)
		}
		profile.HasAddress = has
		return nil
	})
	g.Go(func() error {
		body, err := f.get(gctx, collaboratorBusiness, businessPath, token)
		if err != nil {
			return err
		}
		has, err := hasBusiness(body)
		if err != nil {
			return unavailable(collaboratorBusiness, err)
		}
		profile.HasBusiness = has
		return nil
	})
	g.Go(func() error {
		body, err := f.get(gctx, collaboratorSlots, slotsPath, token)
		if err != nil {
			return err
		}
		has, err := hasSlots(body)
		if err != nil {
			return unavailable(collaboratorSlots, err)
		}
		profile.HasSlots = has
		return nil
	})

	if err := g.Wait(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (f *backendFetcher) get(ctx context.Context, collaborator, path, token string) (map[string]json.RawMessage, error) {
	var body map[string]json.RawMessage
	if err := f.backend.GetJSON(ctx, collaborator, path, token, &body); err != nil {
		return nil, unavailable(collaborator, err)
	}
	if body == nil {
		return nil, unavailable(collaborator, errShape("empty body"))
	}
	return body, nil
}

func unavailable(collaborator string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeCollaboratorUnavailable, err, collaborator+" unavailable").
		WithDetails(map[string]any{"collaborator": collaborator})
}

// CollaboratorOf returns the collaborator named by a fetch error, or "unknown".
func CollaboratorOf(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "unknown"
	}
	if details, ok := typed.Details().(map[string]any); ok {
		if name, ok := details["collaborator"].(string); ok && name != "" {
			return name
		}
	}
	return "unknown"
}

type errShape string

func (e errShape) Error() string { return "unexpected response shape: " + string(e) }

// hasAddress accepts {address: {...}} or {addresses: [...]}.
func hasAddress(body map[string]json.RawMessage) (bool, error) {
	if raw, ok := body["addresses"]; ok {
		return nonEmptyArray(raw)
	}
	if raw, ok := body["address"]; ok {
		return present(raw), nil
	}
	return false, errShape("address or addresses missing")
}

func hasBusiness(body map[string]json.RawMessage) (bool, error) {
	raw, ok := body["business"]
	if !ok {
		return false, errShape("business missing")
	}
	return present(raw), nil
}

func hasSlots(body map[string]json.RawMessage) (bool, error) {
	raw, ok := body["slots"]
	if !ok {
		return false, errShape("slots missing")
	}
	return nonEmptyArray(raw)
}

func nonEmptyArray(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false, errShape("expected array")
	}
	return len(items) > 0, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]", `""`, "false":
		return false
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}
