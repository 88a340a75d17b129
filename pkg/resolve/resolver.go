package resolve

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/sol-eng/wbi/pkg/manifest"
	"github.com/sol-eng/wbi/pkg/osinfo"
	"github.com/sol-eng/wbi/pkg/types"
)

// Source provides a freshly fetched manifest.
type Source interface {
	Fetch(ctx context.Context) (manifest.Manifest, error)
}

// Resolver turns an OS code into the Connect and Package Manager installer URLs.
type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve validates code, fetches the manifest and looks up both installers.
// An unsupported code fails before any request is made.
func (r *Resolver) Resolve(ctx context.Context, code types.OSCode) (*types.Result, error) {
	code, err := osinfo.ParseCode(string(code))
	if err != nil {
		return nil, err
	}

	m, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Lookup(m, code)
}

// ResolveAll fetches the manifest once and resolves every supported code.
// A single failed lookup fails the whole call.
func (r *Resolver) ResolveAll(ctx context.Context) (types.Results, error) {
	m, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	codes := osinfo.SupportedCodes()
	results := make(types.Results, 0, len(codes))
	for _, code := range codes {
		res, err := Lookup(m, code)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Lookup resolves code against an already parsed manifest.
func Lookup(m manifest.Manifest, code types.OSCode) (*types.Result, error) {
	connectKey, err := osinfo.ConnectKey(code)
	if err != nil {
		return nil, err
	}
	pmKey, err := osinfo.PackageManagerKey(code)
	if err != nil {
		return nil, err
	}

	connect, err := m.Installer(types.Connect, connectKey)
	if err != nil {
		return nil, err
	}
	pm, err := m.Installer(types.PackageManager, pmKey)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"os":         code,
		"connectKey": connectKey,
		"rspmKey":    pmKey,
	}).Debug("resolved installers")

	return &types.Result{
		OS:                    code,
		ConnectURL:            connect.URL,
		ConnectVersion:        connect.Version,
		PackageManagerURL:     pm.URL,
		PackageManagerVersion: pm.Version,
	}, nil
}
