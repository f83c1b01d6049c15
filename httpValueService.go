package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"dscheirer.com/segmux/multiplex"
	"github.com/buger/jsonparser"
	"github.com/gorilla/mux"
)

type valueResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
	Value    uint64 `json:"value"`
	Digits   []int  `json:"digits"`
}

// apiHandler answers the value api
type apiHandler struct {
	source *valueSource
}

func newAPIHandler(source *valueSource) *apiHandler {
	return &apiHandler{source: source}
}

func (h *apiHandler) getStatus() valueResponse {
	v := h.source.value()
	digits := multiplex.Decompose(v)
	ret := valueResponse{Response: "OK", Value: v, Digits: make([]int, 0, len(digits))}
	for _, d := range digits {
		ret.Digits = append(ret.Digits, int(d))
	}
	return ret
}

func writeAnswer(w http.ResponseWriter, status int, vr valueResponse) {
	output, _ := json.Marshal(vr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(output)
}

func (h *apiHandler) apiGetValue(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, http.StatusOK, h.getStatus())
}

func (h *apiHandler) apiSetValue(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeAnswer(w, http.StatusBadRequest, valueResponse{Response: "BAD", Error: err.Error()})
		return
	}
	v, err := jsonparser.GetInt(body, "value")
	if err != nil {
		writeAnswer(w, http.StatusBadRequest, valueResponse{Response: "BAD", Error: "value: " + err.Error()})
		return
	}
	if v < 0 {
		writeAnswer(w, http.StatusBadRequest, valueResponse{Response: "BAD", Error: "value must not be negative"})
		return
	}
	h.source.set(uint64(v))
	writeAnswer(w, http.StatusOK, h.getStatus())
}

func newRouter(handler *apiHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/value", handler.apiGetValue).Methods("GET")
	r.HandleFunc("/api/value", handler.apiSetValue).Methods("PUT")
	return r
}

type httpValueService struct {
	srv    *http.Server
	logger flogger
}

func (h *httpValueService) launch(handler *apiHandler, addr string) {
	h.logger = &ThreadLogger{name: "HTTP"}
	h.srv = &http.Server{Addr: addr, Handler: newRouter(handler)}

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.logger.Printf("starting value service on %s", addr)
		err := h.srv.ListenAndServe()
		if err != http.ErrServerClosed {
			h.logger.Println(err)
		}
		h.logger.Println("Exiting value service")
	}()
}

func (h *httpValueService) stop() {
	if h.srv == nil {
		return
	}
	h.srv.Shutdown(context.Background())
}
