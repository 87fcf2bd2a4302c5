package catalog

import (
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/strand-systems/knotsig/goknot"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState (varint encoded)

	gSigTablePrefix, crossingCount (4 bytes, big endian), sig => nil
		...

Keys sort by crossing count first and signature text second, so Select is a
single forward iteration between two crossing counts.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gSigTablePrefix  = byte(0x01)
)

const (
	catalogMajorVers = 2026
	catalogMinorVers = 1

	defaultCrossingLimit = 24
)

// catalogState is the mutable header record of a catalog db: version info
// plus a unique-signature tally per crossing count.
type catalogState struct {
	majorVers     uint64
	minorVers     uint64
	crossingLimit int
	numSigs       []uint64 // indexed by crossing count, 0..crossingLimit
}

func (st *catalogState) Marshal() []byte {
	buf := make([]byte, 0, 16+10*len(st.numSigs))
	buf = binary.AppendUvarint(buf, st.majorVers)
	buf = binary.AppendUvarint(buf, st.minorVers)
	buf = binary.AppendUvarint(buf, uint64(st.crossingLimit))
	for _, count := range st.numSigs {
		buf = binary.AppendUvarint(buf, count)
	}
	return buf
}

func (st *catalogState) Unmarshal(buf []byte) error {
	fields := []*uint64{&st.majorVers, &st.minorVers}
	for _, dst := range fields {
		v, sz := binary.Uvarint(buf)
		if sz <= 0 {
			return errors.Wrap(goknot.ErrBadCatalogParam, "truncated catalog state")
		}
		*dst = v
		buf = buf[sz:]
	}
	limit, sz := binary.Uvarint(buf)
	if sz <= 0 {
		return errors.Wrap(goknot.ErrBadCatalogParam, "truncated catalog state")
	}
	buf = buf[sz:]
	st.crossingLimit = int(limit)
	st.numSigs = make([]uint64, st.crossingLimit+1)
	for i := range st.numSigs {
		v, sz := binary.Uvarint(buf)
		if sz <= 0 {
			return errors.Wrap(goknot.ErrBadCatalogParam, "truncated catalog state")
		}
		st.numSigs[i] = v
		buf = buf[sz:]
	}
	return nil
}

// catalog is a badger-backed store of canonical diagram signatures.
type catalog struct {
	ctx        goknot.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

func OpenCatalog(ctx goknot.CatalogContext, opts goknot.CatalogOpts) (goknot.Catalog, error) {

	if opts.CrossingLimit <= 0 {
		opts.CrossingLimit = defaultCrossingLimit
	}

	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	var err error

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goknot.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.majorVers = catalogMajorVers
		cat.state.minorVers = catalogMinorVers
		cat.state.crossingLimit = opts.CrossingLimit
		cat.state.numSigs = make([]uint64, opts.CrossingLimit+1)
	}

	if err == nil {
		if cat.state.majorVers != catalogMajorVers || cat.state.minorVers != catalogMinorVers {
			err = errors.New("catalog version is incompatible")
		} else if opts.CrossingLimit > cat.state.crossingLimit {
			err = errors.New("catalog's CrossingLimit is below the requested CrossingLimit")
		}
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, cat.state.Marshal())
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		if cat.ctx != nil {
			cat.ctx.DetachCatalog(cat)
			cat.ctx = nil
		}
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumSigs(forCrossingCount int) int64 {
	if forCrossingCount < 0 || forCrossingCount >= len(cat.state.numSigs) {
		return 0
	}
	return int64(cat.state.numSigs[forCrossingCount])
}

func formSigKey(key []byte, numCrossings int, sig goknot.Signature) []byte {
	key = append(key, gSigTablePrefix)
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(numCrossings))
	key = append(key, count[:]...)
	return append(key, sig...)
}

func (cat *catalog) TryAddSig(sig goknot.Signature, numCrossings int) (bool, error) {
	if cat.readOnly {
		return false, errors.Wrap(goknot.ErrBadCatalogParam, "catalog is read-only")
	}
	if numCrossings < 0 || numCrossings > cat.state.crossingLimit {
		return false, errors.Wrapf(goknot.ErrBadCatalogParam, "crossing count %d exceeds catalog limit", numCrossings)
	}

	var keyBuf [80]byte
	key := formSigKey(keyBuf[:0], numCrossings, sig)

	added := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			// no-op since the sig is already in the db
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		return txn.Set(key, nil)
	})
	if err != nil {
		return false, err
	}
	if added {
		cat.state.numSigs[numCrossings]++
		cat.stateDirty = true
	}
	return added, nil
}

// Select fires onHit with every stored signature whose crossing count falls
// within the selector's range, in (crossing count, signature) order.
func (cat *catalog) Select(sel goknot.SigSelector, onHit goknot.OnSigHit) error {
	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
		Prefix:         []byte{gSigTablePrefix},
	})
	defer it.Close()

	var minKey [5]byte
	minKey[0] = gSigTablePrefix
	if sel.MinCrossings > 0 {
		binary.BigEndian.PutUint32(minKey[1:], uint32(sel.MinCrossings))
	}

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		key := it.Item().Key()
		if len(key) < 5 {
			continue
		}
		count := int(binary.BigEndian.Uint32(key[1:5]))
		if sel.MaxCrossings > 0 && count > sel.MaxCrossings {
			break
		}
		onHit <- goknot.Signature(key[5:])
	}
	return nil
}
