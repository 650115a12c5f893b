package cpu

// The arithmetic helpers return the result together with the flags it
// computes. Half-carry is the carry out of bit 3 for byte operations and
// out of bit 11 for word operations; for subtraction both report a
// borrow instead.

// add8 returns a + b + carry.
func add8(a, b uint8, carry bool) (uint8, flags) {
	var cy uint16
	if carry {
		cy = 1
	}
	sum := uint16(a) + uint16(b) + cy
	result := uint8(sum)
	return result, flags{
		z: result == 0,
		h: (a&0x0F)+(b&0x0F)+uint8(cy) > 0x0F,
		c: sum > 0xFF,
	}
}

// sub8 returns a - b - borrow.
func sub8(a, b uint8, borrow bool) (uint8, flags) {
	var bw int
	if borrow {
		bw = 1
	}
	diff := int(a) - int(b) - bw
	result := uint8(diff)
	return result, flags{
		z: result == 0,
		n: true,
		h: int(a&0x0F)-int(b&0x0F)-bw < 0,
		c: diff < 0,
	}
}

// add16 returns a + b, as used by ADD HL,rr.
func add16(a, b uint16) (uint16, flags) {
	sum := uint32(a) + uint32(b)
	return uint16(sum), flags{
		h: (a&0x0FFF)+(b&0x0FFF) > 0x0FFF,
		c: sum > 0xFFFF,
	}
}

// addSigned returns a + e. The flags come from the unsigned addition of
// the low byte of a and e, as used by ADD SP,e8 and LD HL,SP+e8.
func addSigned(a uint16, e uint8) (uint16, flags) {
	result := a + uint16(int8(e))
	return result, flags{
		h: (a&0x0F)+uint16(e&0x0F) > 0x0F,
		c: (a&0xFF)+uint16(e) > 0xFF,
	}
}

// daa adjusts a to binary coded decimal after an addition or
// subtraction, given the N, H and C flags that operation left.
func daa(a uint8, n, h, c bool) (uint8, flags) {
	var correction uint8
	carry := false
	if h || (!n && a&0x0F > 0x09) {
		correction |= 0x06
	}
	if c || (!n && a > 0x99) {
		correction |= 0x60
		carry = true
	}
	if n {
		a -= correction
	} else {
		a += correction
	}
	return a, flags{z: a == 0, c: carry}
}

// rotateLeft rotates v left. Through carry, the old carry enters bit 0;
// otherwise bit 7 does.
func rotateLeft(v uint8, throughCarry, carry bool) (uint8, flags) {
	out := v&0x80 != 0
	result := v << 1
	if (throughCarry && carry) || (!throughCarry && out) {
		result |= 0x01
	}
	return result, flags{z: result == 0, c: out}
}

// rotateRight rotates v right. Through carry, the old carry enters bit 7;
// otherwise bit 0 does.
func rotateRight(v uint8, throughCarry, carry bool) (uint8, flags) {
	out := v&0x01 != 0
	result := v >> 1
	if (throughCarry && carry) || (!throughCarry && out) {
		result |= 0x80
	}
	return result, flags{z: result == 0, c: out}
}

// shiftLeftArithmetic shifts v left, bit 0 becomes 0.
func shiftLeftArithmetic(v uint8) (uint8, flags) {
	result := v << 1
	return result, flags{z: result == 0, c: v&0x80 != 0}
}

// shiftRightArithmetic shifts v right, bit 7 is kept.
func shiftRightArithmetic(v uint8) (uint8, flags) {
	result := v>>1 | v&0x80
	return result, flags{z: result == 0, c: v&0x01 != 0}
}

// shiftRightLogical shifts v right, bit 7 becomes 0.
func shiftRightLogical(v uint8) (uint8, flags) {
	result := v >> 1
	return result, flags{z: result == 0, c: v&0x01 != 0}
}

// swap the upper and lower nibbles of a byte.
func swap(v uint8) (uint8, flags) {
	result := v<<4 | v>>4
	return result, flags{z: result == 0}
}
