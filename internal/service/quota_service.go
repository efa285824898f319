package service

import (
	"math"
	"strconv"

	"github.com/chatarena/chatarena/internal/repository"
)

// Default quota policy, matching the conservative browser storage
// estimate the web client assumed.
const (
	DefaultStorageCapacity = 5 * 1024 * 1024
	DefaultWarnThreshold   = 0.75
)

// QuotaStatus reports approximate storage consumption
type QuotaStatus struct {
	Used          int64   `json:"used"`
	Available     int64   `json:"available"`
	Percentage    float64 `json:"percentage"`
	WarningNeeded bool    `json:"warningNeeded"`
}

// StorageMonitor is a heuristic tracker of storage consumption. It
// charges 2 bytes per UTF-16 code unit of every key and value, the
// encoding the original storage medium billed against.
type StorageMonitor struct {
	store         repository.KVStore
	capacity      int64
	warnThreshold float64
}

// NewStorageMonitor creates a monitor over the given store. A
// non-positive capacity or threshold falls back to the defaults.
func NewStorageMonitor(store repository.KVStore, capacity int64, warnThreshold float64) *StorageMonitor {
	if capacity <= 0 {
		capacity = DefaultStorageCapacity
	}
	if warnThreshold <= 0 {
		warnThreshold = DefaultWarnThreshold
	}
	return &StorageMonitor{
		store:         store,
		capacity:      capacity,
		warnThreshold: warnThreshold,
	}
}

// CheckStorageQuota sums approximate usage over every stored key and
// value and compares it against the capacity estimate.
func (m *StorageMonitor) CheckStorageQuota() (*QuotaStatus, error) {
	entries, err := m.store.Entries()
	if err != nil {
		return nil, err
	}

	var used int64
	for key, value := range entries {
		used += 2 * (utf16Units(key) + utf16Units(value))
	}

	available := m.capacity - used
	if available < 0 {
		available = 0
	}
	percentage := float64(used) / float64(m.capacity)

	return &QuotaStatus{
		Used:          used,
		Available:     available,
		Percentage:    percentage,
		WarningNeeded: percentage >= m.warnThreshold,
	}, nil
}

// utf16Units counts the UTF-16 code units needed to encode s
func utf16Units(s string) int64 {
	var units int64
	for _, r := range s {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return units
}

// FormatBytes converts a byte count to a human-readable unit string
// with at most 2 decimal places, trimming trailing zeros.
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100

	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[i]
}
