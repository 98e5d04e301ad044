package main

import (
	"github.com/lmspick-dev/lmspick/internal/auth"
	"github.com/lmspick-dev/lmspick/internal/config"
	clierrors "github.com/lmspick-dev/lmspick/internal/errors"
	"github.com/lmspick-dev/lmspick/internal/store"
)

// newStoreClient creates an authenticated store client using stored
// credentials and the configured API URL. Returns a CLIError if not
// authenticated.
//
// This consolidates the repeated pattern of:
//
//	source, token := auth.GetToken()
//	cfg := config.Load()
//	c := store.New(token).WithBaseURL(cfg.APIURL())
func newStoreClient() (auth.CredentialSource, *store.Client, error) {
	source, token := auth.GetToken()
	if token == "" {
		return "", nil, clierrors.NotAuthenticated()
	}
	cfg := config.Load()
	c := store.New(token).WithBaseURL(cfg.APIURL())
	return source, c, nil
}
