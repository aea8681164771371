package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * key := context.Data.(int)
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * size := context.Data.([2]uint32)
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A watched asset was reloaded into a mesh.
	/* Context usage:
	 * name := context.Data.(string)
	 */
	EVENT_CODE_ASSET_RELOADED SystemEventCode = 0x10

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	id       uint64
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.RWMutex
	nextID     uint64
	registered map[SystemEventCode][]registeredEvent
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[SystemEventCode][]registeredEvent),
		}
	})
	return eventState != nil
}

// EventShutdown drops every registered listener.
func EventShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.registered = make(map[SystemEventCode][]registeredEvent)
	return nil
}

// EventRegister adds a listener for code and returns a handle that can be
// passed to EventUnregister. A zero handle means the event system is not
// initialized.
func EventRegister(code SystemEventCode, onEvent FnOnEvent) uint64 {
	if eventState == nil || onEvent == nil {
		return 0
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.nextID++
	eventState.registered[code] = append(eventState.registered[code], registeredEvent{
		id:       eventState.nextID,
		callback: onEvent,
	})
	return eventState.nextID
}

func EventUnregister(code SystemEventCode, handle uint64) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	events := eventState.registered[code]
	for i, e := range events {
		if e.id == handle {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// EventFire passes context to the listeners of context.Type in registration
// order until one of them reports the event as handled.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.RLock()
	events := append([]registeredEvent(nil), eventState.registered[context.Type]...)
	eventState.mu.RUnlock()
	for _, e := range events {
		if e.callback(context) {
			return true
		}
	}
	return false
}
