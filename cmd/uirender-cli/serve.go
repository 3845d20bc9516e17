package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-uirenderer"
	"github.com/goliatone/go-uirenderer/components/regions"
	"github.com/goliatone/go-uirenderer/pkg/collab"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/renderers/html"
	"github.com/goliatone/go-uirenderer/pkg/session"
)

const modeField = "_mode"

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	addr := fs.String("addr", ":8080", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	saver := collab.SaveFunc(func(_ context.Context, req collab.SaveRequest) (collab.SaveResult, error) {
		log.Printf("save %s (%s): %d fields", req.SessionID, req.Mode, len(req.Record))
		return collab.SaveResult{ObjectID: req.ObjectID, Record: req.Record}, nil
	})
	engine, err := src.engine(uirenderer.WithConfigCache(), uirenderer.WithSaveCollaborator(saver))
	if err != nil {
		return err
	}

	srv := &server{engine: engine, regions: regions.New()}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)
	r.Get("/forms/{objectType}", srv.showForm)
	r.Post("/forms/{objectType}", srv.submitForm)
	if _, err := srv.regions.RegisterRoutes(r, ""); err != nil {
		return err
	}
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(uirenderer.AssetsFS()))))

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	log.Printf("serving forms on %s", *addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	engine  *uirenderer.Engine
	regions *regions.Component
}

func (s *server) showForm(w http.ResponseWriter, r *http.Request) {
	req := uirenderer.Request{
		ObjectType: chi.URLParam(r, "objectType"),
		Mode:       model.ParseMode(r.URL.Query().Get("mode")),
	}
	sess, err := s.engine.Open(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeForm(w, r, sess.Mode, http.StatusOK, render.RenderOptions{}, sess)
}

func (s *server) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req := uirenderer.Request{
		ObjectType: chi.URLParam(r, "objectType"),
		Mode:       model.ParseMode(r.PostForm.Get(modeField)),
	}
	sess, err := s.engine.Open(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	ctrl, err := s.engine.Controller(sess)
	if err != nil {
		s.fail(w, err)
		return
	}
	tree, err := s.engine.Tree(sess, render.RenderOptions{States: s.regions.States()})
	if err != nil {
		s.fail(w, err)
		return
	}
	for _, ev := range html.DecodeForm(tree, r.PostForm) {
		if _, err := ctrl.Change(ev); err != nil {
			s.fail(w, err)
			return
		}
	}

	result := ctrl.Validate()
	if !result.Valid {
		opts := render.RenderOptions{Errors: result.Errors, FormErrors: []string{"Please correct the highlighted fields."}}
		s.writeForm(w, r, sess.Mode, http.StatusUnprocessableEntity, opts, sess)
		return
	}

	saved, err := s.engine.Submit(r.Context(), sess)
	if mapping, rejected := s.engine.SaveErrors(sess, err); rejected {
		opts := render.RenderOptions{Errors: mapping.Fields, FormErrors: mapping.Form}
		s.writeForm(w, r, sess.Mode, http.StatusUnprocessableEntity, opts, sess)
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"objectId": saved.ObjectID, "record": saved.Record})
}

func (s *server) writeForm(w http.ResponseWriter, r *http.Request, mode model.Mode, status int, opts render.RenderOptions, sess *session.Session) {
	opts.States = s.regions.States()
	opts.Hidden = append(opts.Hidden, render.HiddenField{Name: modeField, Value: string(mode)})
	data, contentType, err := s.engine.Render(r.Context(), sess, "html", opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var missing *layout.MissingLayoutError
	switch {
	case errors.As(err, &missing):
		status = http.StatusNotFound
	case errors.Is(err, render.ErrReadOnly):
		status = http.StatusConflict
	}
	log.Printf("serve: %v", err)
	http.Error(w, fmt.Sprintf("%d %s", status, http.StatusText(status)), status)
}
