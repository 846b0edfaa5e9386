package remo

import (
	"encoding/json"

	"go.mills.io/bitcask/v2"

	"github.com/cybre/remo-light/internal/errors"
)

// SignalCache remembers the last signal IDs resolved from the cloud so the
// light keeps working when the appliance listing is unavailable at startup.
type SignalCache struct {
	db bitcask.DB
}

func OpenSignalCache(path string) (*SignalCache, error) {
	db, err := bitcask.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open signal cache at %s", path)
	}

	return &SignalCache{db: db}, nil
}

func (c *SignalCache) Close() error {
	return c.db.Close()
}

// Get returns false when nothing is cached for the appliance.
func (c *SignalCache) Get(applianceID string) (SignalIDs, bool, error) {
	raw, err := c.db.Get([]byte(cacheKey(applianceID)))
	if err != nil {
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			return SignalIDs{}, false, nil
		}

		return SignalIDs{}, false, errors.Wrapf(err, "get cached signals for %s", applianceID)
	}

	var ids SignalIDs
	if err := json.Unmarshal(raw, &ids); err != nil {
		return SignalIDs{}, false, errors.Wrapf(err, "unmarshal cached signals for %s", applianceID)
	}

	return ids, ids.complete(), nil
}

func (c *SignalCache) Put(applianceID string, ids SignalIDs) error {
	buf, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrapf(err, "marshal signals for %s", applianceID)
	}

	if err := c.db.Put([]byte(cacheKey(applianceID)), buf); err != nil {
		return errors.Wrapf(err, "put signals for %s", applianceID)
	}

	return nil
}

func cacheKey(applianceID string) string {
	return "signals/" + applianceID
}
