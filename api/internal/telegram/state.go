package telegram

import (
	"sync"

	"docqa-bot/api/internal/qa"
)

// chatState is one chat's interactive session. mu serialises updates of the
// same chat so a session never has two exchanges in flight.
type chatState struct {
	mu      sync.Mutex
	sess    *qa.Session
	docName string
	// passages behind the "Relevant Text Chunk" buttons, by message id;
	// order holds the ids oldest first so only the last maxChunks stay
	chunks map[int]string
	order  []int
}

const maxChunks = 20

func (st *chatState) rememberChunk(msgID int, chunk string) {
	st.chunks[msgID] = chunk
	st.order = append(st.order, msgID)
	for len(st.order) > maxChunks {
		delete(st.chunks, st.order[0])
		st.order = st.order[1:]
	}
}

func (r *Router) state(chatID int64) *chatState {
	if v, ok := r.chats.Load(chatID); ok {
		return v.(*chatState)
	}
	v, _ := r.chats.LoadOrStore(chatID, &chatState{
		sess:   r.NewSession(),
		chunks: make(map[int]string),
	})
	return v.(*chatState)
}

func (r *Router) resetState(chatID int64) { r.chats.Delete(chatID) }
