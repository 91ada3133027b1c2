package stores

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const defaultOTPShards = 32

var (
	ErrOTPNotFound         = errors.New("otp record not found")
	ErrOTPExpired          = errors.New("otp record expired")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrOTPSecretMismatch   = errors.New("otp secret mismatch")
)

// OTPRecord is the pending-OTP state held for one identifier.
type OTPRecord struct {
	Identifier string
	CodeHash   [32]byte
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Attempts   int
}

type otpShard struct {
	mu      sync.Mutex
	records map[string]*OTPRecord
}

// OTPStore maps identifiers to pending OTP records. Each shard owns its own
// lock, so a record's read-modify-write never races with another caller
// touching the same identifier.
type OTPStore struct {
	shards []otpShard
	mask   uint64
}

func NewOTPStore(shardCount int) *OTPStore {
	if shardCount <= 0 {
		shardCount = defaultOTPShards
	}
	n := 1
	for n < shardCount {
		n <<= 1
	}

	s := &OTPStore{
		shards: make([]otpShard, n),
		mask:   uint64(n - 1),
	}
	for i := range s.shards {
		s.shards[i].records = make(map[string]*OTPRecord)
	}
	return s
}

func (s *OTPStore) shard(identifier string) *otpShard {
	return &s.shards[xxhash.Sum64String(identifier)&s.mask]
}

// Save stores record, replacing whatever was pending for the identifier.
func (s *OTPStore) Save(record OTPRecord) {
	sh := s.shard(record.Identifier)
	rec := record

	sh.mu.Lock()
	sh.records[record.Identifier] = &rec
	sh.mu.Unlock()
}

// Consume runs one verification attempt against the pending record.
//
// Checks run in order: missing, expired, attempt cap. Surviving those, the
// attempt counter is incremented before the hashes are compared. A match
// deletes the record. The returned count is maxAttempts minus the attempts
// consumed so far and is meaningful for matches and mismatches only.
func (s *OTPStore) Consume(identifier string, providedHash [32]byte, now time.Time, maxAttempts int) (int, error) {
	sh := s.shard(identifier)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	record, ok := sh.records[identifier]
	if !ok {
		return 0, ErrOTPNotFound
	}
	if now.After(record.ExpiresAt) {
		return 0, ErrOTPExpired
	}
	if record.Attempts >= maxAttempts {
		return 0, ErrOTPAttemptsExceeded
	}

	record.Attempts++
	remaining := maxAttempts - record.Attempts

	if subtle.ConstantTimeCompare(record.CodeHash[:], providedHash[:]) != 1 {
		return remaining, ErrOTPSecretMismatch
	}

	delete(sh.records, identifier)
	return remaining, nil
}

// Delete removes the pending record and reports whether one existed.
func (s *OTPStore) Delete(identifier string) bool {
	sh := s.shard(identifier)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	_, ok := sh.records[identifier]
	delete(sh.records, identifier)
	return ok
}

// Get returns a copy of the pending record.
func (s *OTPStore) Get(identifier string) (OTPRecord, bool) {
	sh := s.shard(identifier)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	record, ok := sh.records[identifier]
	if !ok {
		return OTPRecord{}, false
	}
	return *record, true
}

// Len counts pending records across all shards, expired ones included.
func (s *OTPStore) Len() int {
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		total += len(sh.records)
		sh.mu.Unlock()
	}
	return total
}
