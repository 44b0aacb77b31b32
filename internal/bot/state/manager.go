package state

import "sync"

// Conversation states: what the next free-text message of a chat means.
const (
	None               = "none"
	WaitingForLogin    = "waiting_for_login"
	WaitingForRegister = "waiting_for_register"
	WaitingForGlucose  = "waiting_for_glucose"
	WaitingForDose     = "waiting_for_dose"
	WaitingForMeal     = "waiting_for_meal"
	WaitingForMovement = "waiting_for_movement"
	WaitingForKitName  = "waiting_for_kit_name"
	WaitingForElements = "waiting_for_elements"
)

// Manager tracks per-chat conversation state and temporary data, such as
// the checklist being filled during a public kit verification.
type Manager struct {
	chatStates map[int64]string
	tempData   map[int64]map[string]interface{}
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		chatStates: make(map[int64]string),
		tempData:   make(map[int64]map[string]interface{}),
	}
}

// SetState sets the conversation state for a chat
func (m *Manager) SetState(chatID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatStates[chatID] = state
}

// State gets the conversation state for a chat
func (m *Manager) State(chatID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.chatStates[chatID]
	if !exists {
		return None
	}
	return state
}

// ClearState resets the chat to the neutral state
func (m *Manager) ClearState(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chatStates, chatID)
}

// SetTempData sets temporary data for a chat
func (m *Manager) SetTempData(chatID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[chatID] == nil {
		m.tempData[chatID] = make(map[string]interface{})
	}
	m.tempData[chatID][key] = value
}

// TempData gets temporary data for a chat
func (m *Manager) TempData(chatID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chatData, exists := m.tempData[chatID]
	if !exists {
		return nil, false
	}
	value, exists := chatData[key]
	return value, exists
}

// ClearTempData clears all temporary data for a chat
func (m *Manager) ClearTempData(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData, chatID)
}
