// Package aws wraps the AWS control-plane APIs behind small per-service
// manager interfaces.
//
// RealClient implements every manager against the SDK; MockClient provides
// an in-memory implementation for tests. Ensure* methods are idempotent
// get-or-create operations that block until the resource reaches a usable
// state, Get* methods return (nil, nil) when the resource does not exist.
package aws
