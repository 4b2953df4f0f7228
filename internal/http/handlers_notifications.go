package http

import (
	"net/http"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	items := s.notifier.Items()
	out := make([]notificationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toNotificationResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unread": s.notifier.UnreadCount()})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.notifier.MarkRead(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	s.notifier.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveNotification(w http.ResponseWriter, r *http.Request) {
	s.notifier.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.notifier.Clear()
	w.WriteHeader(http.StatusNoContent)
}
