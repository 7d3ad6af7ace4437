package connectors

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/samber/lo"
)

type Memcache struct {
	value        *memcache.Client
	Address      string
	Timeout      time.Duration
	MaxIdleConns int
	init         sync.Once
}

// Client connects lazily. Address may hold a comma separated server list.
func (m *Memcache) Client(ctx context.Context) *memcache.Client {
	m.init.Do(func() {
		m.value = memcache.New(strings.Split(m.Address, ",")...)

		if m.Timeout > 0 {
			m.value.Timeout = m.Timeout
		}

		if m.MaxIdleConns > 0 {
			m.value.MaxIdleConns = m.MaxIdleConns
		}

		lo.Must0(m.value.Ping())

		logger(ctx).Info("memcache connected", slog.String("address", m.Address))
	})

	return m.value
}
