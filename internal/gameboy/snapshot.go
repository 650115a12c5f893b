package gameboy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/thelolagemann/gbcore/internal/cpu"
	"github.com/thelolagemann/gbcore/internal/types"
)

var (
	// ErrSnapshotMismatch is returned by Restore when the snapshot was
	// taken with a different cartridge inserted.
	ErrSnapshotMismatch = errors.New("gameboy: snapshot is for a different cartridge")
	// ErrSnapshotCorrupt is returned by Restore when the snapshot cannot
	// be decoded.
	ErrSnapshotCorrupt = errors.New("gameboy: snapshot is corrupt")
)

const (
	snapshotMagic   = "GBCS"
	snapshotVersion = 1
	// magic, version and the cartridge fingerprint precede the
	// compressed state
	snapshotHeaderSize = len(snapshotMagic) + 1 + 8
)

// Snapshot returns the state of the machine, compressed with brotli and
// tagged with the fingerprint of the inserted cartridge.
func (g *GameBoy) Snapshot() ([]byte, error) {
	if g.MMU.Cart == nil {
		return nil, cpu.ErrCartridgeNotLoaded
	}

	state := types.NewState()
	g.saveState(state)

	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	buf.WriteByte(snapshotVersion)
	buf.Write(binary.LittleEndian.AppendUint64(nil, g.MMU.Cart.Fingerprint()))

	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(state.Bytes()); err != nil {
		return nil, fmt.Errorf("gameboy: compressing snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gameboy: compressing snapshot: %w", err)
	}

	g.log.Debugf("gameboy: snapshot of %d bytes (%d uncompressed)", buf.Len(), len(state.Bytes()))
	return buf.Bytes(), nil
}

// Restore loads a snapshot taken by Snapshot. The machine is left
// untouched if the snapshot is rejected.
func (g *GameBoy) Restore(b []byte) error {
	if g.MMU.Cart == nil {
		return cpu.ErrCartridgeNotLoaded
	}
	if len(b) < snapshotHeaderSize || string(b[:len(snapshotMagic)]) != snapshotMagic {
		return fmt.Errorf("%w: bad header", ErrSnapshotCorrupt)
	}
	if v := b[len(snapshotMagic)]; v != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrSnapshotCorrupt, v)
	}
	fingerprint := binary.LittleEndian.Uint64(b[len(snapshotMagic)+1 : snapshotHeaderSize])
	if fingerprint != g.MMU.Cart.Fingerprint() {
		return fmt.Errorf("%w: snapshot %016x, cartridge %016x", ErrSnapshotMismatch, fingerprint, g.MMU.Cart.Fingerprint())
	}

	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(b[snapshotHeaderSize:])))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	// keep the current state around in case the snapshot turns out short
	backup := types.NewState()
	g.saveState(backup)

	state := types.StateFromBytes(raw)
	g.loadState(state)
	if err := state.Err(); err != nil {
		g.loadState(types.StateFromBytes(backup.Bytes()))
		return fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return nil
}
