// Package delivery contains the platform adapters for the delivery
// integrations (Getir, Trendyol, Yemeksepeti, Migros) together with the
// shared webhook signing and upstream transport helpers they build on.
// Each adapter implements the platform.Adapter port.
package delivery
