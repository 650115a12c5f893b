package interrupts

import "testing"

func TestVector(t *testing.T) {
	tests := []struct {
		pending uint8
		vector  uint16
		name    string
	}{
		{0x00, 0x0000, "none"},
		{VBlankFlag, 0x0040, "VBlank"},
		{LCDFlag, 0x0048, "LCD"},
		{TimerFlag, 0x0050, "Timer"},
		{SerialFlag, 0x0058, "Serial"},
		{JoypadFlag, 0x0060, "Joypad"},
		{TimerFlag | JoypadFlag, 0x0050, "Timer"},
		{0xE0, 0x0000, "none"},
	}
	for _, tt := range tests {
		if v := Vector(tt.pending); v != tt.vector {
			t.Errorf("Vector(0x%02X): expected 0x%04X, got 0x%04X", tt.pending, tt.vector, v)
		}
		if n := Name(tt.pending); n != tt.name {
			t.Errorf("Name(0x%02X): expected %s, got %s", tt.pending, tt.name, n)
		}
	}
}
