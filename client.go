package ip2loc

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Mode selects how queries reach the database bytes.
type Mode uint8

const (
	// ModeStream opens the file for every query and reads rows with
	// positioned reads.
	ModeStream Mode = iota
	// ModeMapped maps the file once and lets every query read the mapping.
	ModeMapped
)

func (m Mode) String() string {
	if m == ModeMapped {
		return "mapped"
	}
	return "stream"
}

// DB is an open database. It is safe for concurrent use.
type DB struct {
	src    source
	mu     sync.RWMutex
	mode   Mode
	st     *state
	mapped handle
	logger atomic.Pointer[log.Logger]
}

// ---------------- PUBLIC BLOCK ----------------

// Open - opens the database file at path in stream mode
func Open(path string) (*DB, error) {
	return OpenWithMode(path, ModeStream)
}

// OpenWithMode - opens the database file at path and reads it the given way
func OpenWithMode(path string, mode Mode) (*DB, error) {
	return open(fileSource{path: path}, mode)
}

// OpenBytes - opens a database held in memory. The slice must not be
// modified while the DB is in use.
func OpenBytes(data []byte) (*DB, error) {
	return open(bytesSource{data: data}, ModeStream)
}

// SetLogger installs a logger for load events and damaged fields. A nil
// logger silences the DB, which is the default.
func (db *DB) SetLogger(l *log.Logger) {
	db.logger.Store(l)
}

// SetMode switches the access mode. Leaving mapped mode releases the
// mapping; entering it maps the file right away when the database is loaded.
func (db *DB) SetMode(mode Mode) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.mode = mode
	if mode == ModeStream {
		return db.unmap()
	}
	if db.st == nil {
		return nil
	}
	return db.mapRegions()
}

// Mode reports the current access mode.
func (db *DB) Mode() Mode {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.mode
}

// Query - looks up an address given as text. It never fails: the outcome is
// in the record's Status.
//
// Only address literals are accepted: dotted-quad IPv4 and IPv6 text,
// including IPv4-mapped, 6to4, Teredo and IPv4-compatible forms. Host names,
// bracketed IPv6 ("[::1]"), zoned IPv6 ("fe80::1%eth0"), short IPv4 ("1.2.3"),
// bare integers and IPv6 text whose IPv4 tail has zero-led octets give
// StatusInvalidAddress.
func (db *DB) Query(ip string) *Record {
	ip = strings.TrimSpace(ip)
	rec := &Record{Address: ip}
	if ip == "" {
		rec.Status = StatusEmptyAddress
		return rec
	}
	addr, err := normalizeAddress(ip)
	if err != nil {
		rec.Status = StatusInvalidAddress
		return rec
	}
	if addr.display != "" {
		rec.Address = addr.display
	}

	st, v, release, err := db.acquire()
	if err != nil {
		db.logf("load %s: %v", db.src, err)
		rec.Status = StatusMissingFile
		return rec
	}
	defer release()

	if addr.version == ipV6 && !st.meta.HasIPv6() {
		rec.Status = StatusIPv6NotSupported
		return rec
	}
	rec.Status, err = st.search(v, addr, rec)
	if err != nil {
		db.logf("query %s: %v", ip, err)
	}
	return rec
}

// GetRecord - method for getting actual record using ip address
func (db *DB) GetRecord(ip net.IP) (*Record, error) {
	if ip == nil {
		return nil, ErrInvalidAddress
	}
	rec := db.Query(ip.String())
	if err := rec.Status.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// PackageVersion returns the database type code, "" when nothing is loaded.
func (db *DB) PackageVersion() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.st == nil || db.st.meta.DBType == 0 {
		return ""
	}
	return strconv.Itoa(int(db.st.meta.DBType))
}

// DatabaseVersion returns the release date as 20YY.M.D, "" when nothing is
// loaded.
func (db *DB) DatabaseVersion() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.st == nil || db.st.meta.Year == 0 {
		return ""
	}
	m := db.st.meta
	return fmt.Sprintf("20%d.%d.%d", m.Year, m.Month, m.Day)
}

// Metadata returns a copy of the parsed header, false when nothing is
// loaded.
func (db *DB) Metadata() (Meta, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.st == nil {
		return Meta{}, false
	}
	return *db.st.meta, true
}

// Close - releases the mapping and the parsed header. It can be called more
// than once; a later Query loads the database again.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.st = nil
	return db.unmap()
}

// ---------------- PRIVATE BLOCK ----------------

func open(src source, mode Mode) (*DB, error) {
	db := &DB{src: src, mode: mode}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.prepare(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) logf(format string, args ...interface{}) {
	if l := db.logger.Load(); l != nil {
		l.Printf(format, args...)
	}
}

func (db *DB) ready() bool {
	return db.st != nil && (db.mode == ModeStream || db.mapped != nil)
}

// acquire returns the loaded state and a view for one query, loading and
// mapping first if needed. The read lock stays held until release, so Close
// and SetMode wait for queries in flight.
func (db *DB) acquire() (*state, *view, func(), error) {
	for {
		db.mu.RLock()
		if db.ready() {
			break
		}
		db.mu.RUnlock()

		db.mu.Lock()
		err := db.prepare()
		db.mu.Unlock()
		if err != nil {
			return nil, nil, nil, err
		}
	}

	st := db.st
	if db.mode == ModeMapped {
		return st, newView(db.mapped, st.sections, db.logf), db.mu.RUnlock, nil
	}
	h, err := db.src.open()
	if err != nil {
		db.mu.RUnlock()
		return nil, nil, nil, err
	}
	release := func() {
		h.Close()
		db.mu.RUnlock()
	}
	return st, newView(h, st.sections, db.logf), release, nil
}

// prepare loads the header and index once and maps the file once.
// Callers hold the write lock.
func (db *DB) prepare() error {
	if db.st == nil {
		if err := db.load(); err != nil {
			return err
		}
	}
	if db.mode == ModeMapped && db.mapped == nil {
		return db.mapRegions()
	}
	return nil
}

func (db *DB) load() error {
	h, err := db.src.open()
	if err != nil {
		return err
	}
	defer h.Close()

	meta, err := readMeta(h)
	if err != nil {
		return err
	}
	layout, err := newColumnLayout(meta.DBType)
	if err != nil {
		return err
	}
	secs, err := newSections(meta, h.Size())
	if err != nil {
		return err
	}
	index, err := loadIndex(h, meta)
	if err != nil {
		return err
	}
	db.st = &state{meta: meta, layout: layout, index: index, sections: secs}
	db.logf("loaded %s: type %d, %d ipv4 rows, %d ipv6 rows, indexed %v",
		db.src, meta.DBType, meta.CountV4, meta.CountV6, meta.Indexed())
	return nil
}

func (db *DB) mapRegions() error {
	if db.mapped != nil {
		return nil
	}
	m, err := db.src.mmap()
	if err != nil {
		return err
	}
	if m.Size() < db.st.sections.data.end() {
		m.Close()
		return fmt.Errorf("%w: %s shrank since it was loaded", ErrInvalidDatabase, db.src)
	}
	db.mapped = m
	db.logf("mapped %s", db.src)
	return nil
}

func (db *DB) unmap() error {
	if db.mapped == nil {
		return nil
	}
	err := db.mapped.Close()
	db.mapped = nil
	db.logf("unmapped %s", db.src)
	return err
}
