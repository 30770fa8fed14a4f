package tily

// syntheticPointerEvent is one injected pointer sample in viewport pixels.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a pointer press at (x, y). Injected events are
// consumed one per frame, ahead of real input.
func (m *Main) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held.
func (m *Main) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release at (x, y).
func (m *Main) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press and release at (x, y). Consumes two frames.
func (m *Main) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). Minimum frames is 2.
func (m *Main) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		m.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	m.InjectRelease(toX, toY)
}

// processInjectedInput feeds one queued event through the pointer state
// machine. It reports whether an event was consumed.
func (m *Main) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]
	m.input.processPointer(m, evt.x, evt.y, evt.pressed)
	return true
}
