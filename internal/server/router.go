package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the API route table.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/otp/send", s.SendOTP).Methods(http.MethodPost)
	r.HandleFunc("/api/otp/verify", s.VerifyOTP).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.Login).Methods(http.MethodPost)

	r.HandleFunc("/api/user/profile", s.authenticate(s.Profile)).Methods(http.MethodGet)

	r.HandleFunc("/api/tasks/{userId:[0-9]+}", s.authenticate(s.ListTasks)).Methods(http.MethodGet)
	r.HandleFunc("/api/new-task", s.authenticate(s.CreateTask)).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/edit/{id:[0-9]+}", s.authenticate(s.EditTask)).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/status/{id:[0-9]+}", s.authenticate(s.SetStatus)).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/delete/{id:[0-9]+}", s.authenticate(s.DeleteTask)).Methods(http.MethodDelete)

	return r
}
