// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/golang/snappy"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Magic number of the snapshot format.
const snapshotMagic uint32 = 0x56554C31

// Digest is the Keccak-256 hash of an uncompressed snapshot.
type Digest [32]byte

func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}

// Snapshot is the decoded content of an exported ledger. Balances are in
// fragments.
type Snapshot struct {
	Decimals       uint8
	Epoch          uint64
	State          RebaseState
	BurnPending    bool
	Supply         *uint256.Int
	MaxSupply      *uint256.Int
	TotalFragments *uint256.Int
	Balances       map[string]*uint256.Int
}

// Export writes the ledger state as a snappy compressed stream. Accounts are
// sorted by name, such that the output is deterministic. The digest is
// computed over the uncompressed content.
func (l *ledger) Export(out io.Writer) (Digest, error) {
	hasher := sha3.NewLegacyKeccak256()
	compressed := snappy.NewBufferedWriter(out)
	w := io.MultiWriter(hasher, compressed)

	if err := l.store(w); err != nil {
		return Digest{}, errors.Join(err, compressed.Close())
	}
	if err := compressed.Close(); err != nil {
		return Digest{}, err
	}
	var res Digest
	copy(res[:], hasher.Sum(nil))
	return res, nil
}

func (l *ledger) store(w io.Writer) error {
	header := []any{
		snapshotMagic,
		l.params.Decimals,
		l.epoch,
		byte(l.state),
		l.burnPending,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.BigEndian, field); err != nil {
			return err
		}
	}
	for _, value := range []*uint256.Int{&l.supply, &l.derived.maxSupply, &l.derived.totalFragments} {
		if err := writeWord(w, value); err != nil {
			return err
		}
	}

	accounts := slices.Sorted(maps.Keys(l.balances))
	if err := binary.Write(w, binary.BigEndian, uint32(len(accounts))); err != nil {
		return err
	}
	for _, account := range accounts {
		if len(account) > 0xFFFF {
			return fmt.Errorf("account name too long: %d bytes", len(account))
		}
		if err := binary.Write(w, binary.BigEndian, uint16(len(account))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, account); err != nil {
			return err
		}
		balance := l.balances[account]
		if err := writeWord(w, &balance); err != nil {
			return err
		}
	}
	return nil
}

// ReadSnapshot decodes a snapshot produced by Export.
func ReadSnapshot(in io.Reader) (Snapshot, Digest, error) {
	hasher := sha3.NewLegacyKeccak256()
	r := io.TeeReader(snappy.NewReader(in), hasher)

	var res Snapshot
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return res, Digest{}, err
	}
	if magic != snapshotMagic {
		return res, Digest{}, fmt.Errorf("invalid snapshot magic number: %x", magic)
	}
	var state byte
	for _, field := range []any{&res.Decimals, &res.Epoch, &state, &res.BurnPending} {
		if err := binary.Read(r, binary.BigEndian, field); err != nil {
			return res, Digest{}, err
		}
	}
	res.State = RebaseState(state)

	var err error
	for _, value := range []**uint256.Int{&res.Supply, &res.MaxSupply, &res.TotalFragments} {
		if *value, err = readWord(r); err != nil {
			return res, Digest{}, err
		}
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return res, Digest{}, err
	}
	res.Balances = make(map[string]*uint256.Int, count)
	for i := uint32(0); i < count; i++ {
		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return res, Digest{}, err
		}
		name := make([]byte, length)
		if _, err := io.ReadFull(r, name); err != nil {
			return res, Digest{}, err
		}
		balance, err := readWord(r)
		if err != nil {
			return res, Digest{}, err
		}
		res.Balances[string(name)] = balance
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return res, digest, nil
}

func writeWord(w io.Writer, value *uint256.Int) error {
	word := value.Bytes32()
	_, err := w.Write(word[:])
	return err
}

func readWord(r io.Reader) (*uint256.Int, error) {
	var word [32]byte
	if _, err := io.ReadFull(r, word[:]); err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(word[:]), nil
}
