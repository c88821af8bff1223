// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store persists the distributor config, global state and staker
// records.
package store

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/cache"
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/kv"
	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/staking"
)

var logger = log.WithContext("pkg", "store")

var (
	configKey    = []byte("config")
	stateKey     = []byte("state")
	genesisKey   = []byte("genesis")
	stakerBucket = kv.Bucket("staker/")
)

// ErrNotInitialized is returned when reading a store nothing was
// initialized into.
var ErrNotInitialized = errors.New("distributor not initialized")

// DefaultCacheSize is the number of staker records kept in memory.
const DefaultCacheSize = 4096

var _ staking.StakerReader = (*Store)(nil)

// Store reads and writes distributor records on a kv.Store.
type Store struct {
	db      kv.Store
	stakers kv.Store
	cache   *cache.LRU[dist.Address, *staking.Staker]
	lock    sync.RWMutex
}

// New creates a store on db.
func New(db kv.Store, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := cache.NewLRU[dist.Address, *staking.Staker](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "staker cache")
	}
	return &Store{
		db:      db,
		stakers: stakerBucket.NewStore(db),
		cache:   c,
	}, nil
}

// Initialized reports whether a distributor was initialized.
func (s *Store) Initialized() (bool, error) {
	return s.db.Has(configKey)
}

// Initialize writes the genesis id, config and state of a new distributor.
func (s *Store) Initialize(genesisID [32]byte, config *staking.Config, state *staking.State) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	ok, err := s.db.Has(configKey)
	if err != nil {
		return err
	}
	if ok {
		return errors.New("distributor already initialized")
	}

	bulk := s.db.Bulk()
	if err := bulk.Put(genesisKey, genesisID[:]); err != nil {
		return err
	}
	if err := saveRLP(bulk, configKey, config); err != nil {
		return err
	}
	if err := saveRLP(bulk, stateKey, state); err != nil {
		return err
	}
	return bulk.Write()
}

// GenesisID returns the id of the genesis the distributor was initialized
// from.
func (s *Store) GenesisID() ([32]byte, error) {
	var id [32]byte
	data, err := s.db.Get(genesisKey)
	if err != nil {
		if s.db.IsNotFound(err) {
			return id, ErrNotInitialized
		}
		return id, err
	}
	copy(id[:], data)
	return id, nil
}

// Config loads the config.
func (s *Store) Config() (*staking.Config, error) {
	var config staking.Config
	if err := s.load(configKey, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// State loads the global state.
func (s *Store) State() (*staking.State, error) {
	var state staking.State
	if err := s.load(stateKey, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetStaker returns a copy of the staker record, or nil if the staker never
// bonded.
func (s *Store) GetStaker(addr dist.Address) (*staking.Staker, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	staker, err := s.cache.GetOrLoad(addr, s.loadStaker)
	if err != nil {
		return nil, err
	}
	if staker == nil {
		return nil, nil
	}
	return staker.Copy(), nil
}

// Stakers calls fn for every staker in address order until fn returns false.
func (s *Store) Stakers(fn func(dist.Address, *staking.Staker) bool) error {
	it := s.stakers.Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		var staker staking.Staker
		if err := rlp.DecodeBytes(it.Value(), &staker); err != nil {
			return errors.Wrap(err, "decode staker")
		}
		if !fn(dist.BytesToAddress(it.Key()), &staker) {
			break
		}
	}
	return it.Error()
}

// Commit writes the changes atomically.
func (s *Store) Commit(changes *staking.Changes) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	bulk := s.db.Bulk()
	if changes.Config != nil {
		if err := saveRLP(bulk, configKey, changes.Config); err != nil {
			return err
		}
	}
	if changes.State != nil {
		if err := saveRLP(bulk, stateKey, changes.State); err != nil {
			return err
		}
	}
	stakers := stakerBucket.NewPutter(bulk)
	for addr, staker := range changes.Stakers {
		if err := saveRLP(stakers, addr.Bytes(), staker); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		logger.Warn("failed to commit", "error", err)
		return errors.Wrap(err, "commit")
	}

	for addr, staker := range changes.Stakers {
		s.cache.Add(addr, staker.Copy())
	}
	if stats, changed := s.cache.Stats(); changed {
		logger.Debug("staker cache stats", "hit", stats.Hit, "miss", stats.Miss, "rate", stats.HitRate())
	}
	return nil
}

func (s *Store) loadStaker(addr dist.Address) (*staking.Staker, error) {
	var staker staking.Staker
	if err := loadRLP(s.stakers, addr.Bytes(), &staker); err != nil {
		if s.stakers.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load staker")
	}
	return &staker, nil
}

func (s *Store) load(key []byte, val any) error {
	if err := loadRLP(s.db, key, val); err != nil {
		if s.db.IsNotFound(err) {
			return ErrNotInitialized
		}
		return errors.Wrapf(err, "load %s", key)
	}
	return nil
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}
