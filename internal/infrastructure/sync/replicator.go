// Package sync implementa la replicación periódica entre réplicas locales del
// modelo local-first. Cada dispositivo opera sobre su propio almacén y
// sincroniza por intervalos: entre sincronizaciones las réplicas divergen y
// dos dispositivos pueden vender el mismo stock (sobreventa), un riesgo
// asumido del modelo.
package sync

import (
	"context"
	"time"

	"github.com/jhoicas/caja-pro/internal/infrastructure/memory"
	"github.com/jhoicas/caja-pro/pkg/logger"
)

// Peer es una réplica con la que se intercambia estado.
type Peer interface {
	Export() *memory.Snapshot
	Merge(snapshot *memory.Snapshot)
}

// Replicator sincroniza la réplica local con sus pares cada Interval.
// La resolución de conflictos es last-writer-wins (ver memory.Store.Merge).
type Replicator struct {
	local    Peer
	peers    []Peer
	interval time.Duration
	log      *logger.Logger
}

func NewReplicator(local Peer, peers []Peer, interval time.Duration, log *logger.Logger) *Replicator {
	return &Replicator{
		local:    local,
		peers:    peers,
		interval: interval,
		log:      log,
	}
}

// Run sincroniza periódicamente hasta que el contexto se cancele.
func (r *Replicator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("replicador detenido")
			return
		case <-ticker.C:
			r.SyncOnce()
		}
	}
}

// SyncOnce intercambia snapshots con cada par en ambas direcciones. El
// intercambio no es atómico entre pares; la convergencia llega tras rondas
// sucesivas.
func (r *Replicator) SyncOnce() {
	started := time.Now()
	for _, peer := range r.peers {
		remote := peer.Export()
		local := r.local.Export()
		r.local.Merge(remote)
		peer.Merge(local)
	}
	r.log.Debug().
		Int("peers", len(r.peers)).
		Int64("duration_ms", time.Since(started).Milliseconds()).
		Msg("sincronización completada")
}
