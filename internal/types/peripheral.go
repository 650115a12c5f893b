package types

// Peripheral is a hardware component that is advanced in lock-step
// with the CPU, such as the timer, the serial port, or the PPU. After
// every Fetch-Decode-Execute cycle, the owner of the CPU calls Step
// on each peripheral with the number of cycles the instruction took,
// so every component observes the same elapsed time in the same order.
type Peripheral interface {
	// Step advances the peripheral device by the given number of cycles.
	Step(cycles uint8)
}

// PeripheralFunc adapts a plain function to the Peripheral interface.
type PeripheralFunc func(cycles uint8)

// Step calls f(cycles).
func (f PeripheralFunc) Step(cycles uint8) {
	f(cycles)
}
