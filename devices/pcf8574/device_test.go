package pcf8574

import (
	"errors"
	"testing"
)

type fakeBus struct {
	addr uint16
	last []byte
	err  error
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.addr = addr
	b.last = append([]byte(nil), w...)
	return nil
}

func TestWriteBits(t *testing.T) {
	bus := &fakeBus{}
	dev := New(bus, 0x20)
	if err := dev.WriteBits(0xEF); err != nil {
		t.Fatal(err)
	}
	if bus.addr != 0x20 || len(bus.last) != 1 || bus.last[0] != 0xEF {
		t.Fatalf("unexpected transaction addr=%#x w=%v", bus.addr, bus.last)
	}
	if bus.addr != uint16(dev.Address()) {
		t.Fatalf("device reports %#x, bus saw %#x", dev.Address(), bus.addr)
	}
}

func TestResetTurnsOutputsOff(t *testing.T) {
	bus := &fakeBus{}
	dev := New(bus, 0x27)
	if err := dev.Reset(); err != nil {
		t.Fatal(err)
	}
	if bus.last[0] != 0xFF {
		t.Fatalf("expected 0xFF, got %#x", bus.last[0])
	}
	bus.err = errors.New("nack")
	if err := dev.Reset(); !errors.Is(err, bus.err) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
