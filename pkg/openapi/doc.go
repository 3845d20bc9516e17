// Package openapi builds layout payloads from OpenAPI 3 request bodies so an
// API description can serve as a collab.ConfigProvider. Each operation id is
// an object type; its request schema becomes sections and attributes that
// flow through layout.Normalize like any other payload.
package openapi
