// Package mocks provides generated mock implementations for the portal's ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	cache := mocks.NewMockCache(ctrl)
//	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
package mocks

// Generate mocks for the auth and cache ports from internal/ports:
// Cache (Get, Set, Delete), SessionStore (Save, Get, Delete),
// AuthProvider (SignIn, CurrentUser, SignOut, ChangePassword),
// OAuthFlow (Begin, Exchange).
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ports_mocks.go github.com/corpintra/portal-ui-api/internal/ports Cache,SessionStore,AuthProvider,OAuthFlow
