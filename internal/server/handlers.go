package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// =============================================================================
// Response Types
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type memberResponse struct {
	graph.Node
	Key      string   `json:"key,omitempty"`
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
}

// memberPatch holds the fields a PATCH may change. Absent fields keep
// their value.
type memberPatch struct {
	GivenName  *string    `json:"given_name"`
	FamilyName *string    `json:"family_name"`
	NationalID *string    `json:"national_id"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	BirthDate  *time.Time `json:"birth_date"`
	DeathDate  *time.Time `json:"death_date"`
}

func (m memberPatch) apply(p *family.Person) {
	setIf(&p.GivenName, m.GivenName)
	setIf(&p.FamilyName, m.FamilyName)
	setIf(&p.NationalID, m.NationalID)
	setIf(&p.Latitude, m.Latitude)
	setIf(&p.Longitude, m.Longitude)
	setIf(&p.BirthDate, m.BirthDate)
	if m.DeathDate != nil {
		p.DeathDate = m.DeathDate
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type distanceResponse struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Km    *float64 `json:"km"` // null when unreachable
}

type routeResponse struct {
	Stops []graph.Node `json:"stops"`
	Km    float64      `json:"km"`
}

type statsResponse struct {
	Members   int           `json:"members"`
	Distances *family.Stats `json:"distances"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var n int
	_ = s.withFamily(func(f *pipeline.Family) error {
		n = f.Len()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "members": n, "version": buildinfo.Short()})
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	var g graph.Graph
	_ = s.withFamily(func(f *pipeline.Family) error {
		g = graph.FromFamily(f.Tree)
		return nil
	})
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleMember(w http.ResponseWriter, r *http.Request) {
	var resp memberResponse
	err := s.withFamily(func(f *pipeline.Family) error {
		n, err := f.MustResolve(chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		resp.Node = graph.NodeFromPerson(n.Value)
		resp.Key, _ = f.KeyOf(n.ID)
		resp.Parents = nodeIDs(f.Parents(n.ID))
		resp.Children = nodeIDs(f.Children(n.ID))
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdateMember edits a member of the served family in memory. The
// source file is untouched, so a reload discards the edit.
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var patch memberPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid member body"))
		return
	}
	var node graph.Node
	err := s.withFamily(func(f *pipeline.Family) error {
		n, err := f.MustResolve(chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		if err := f.UpdateMember(n.ID, patch.apply); err != nil {
			return err
		}
		f.BuildLocationEdgesWithin(s.proximityKm)
		node = graph.NodeFromPerson(n.Value)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// handleDeleteMember removes a member from the served family in memory.
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	var left int
	err := s.withFamily(func(f *pipeline.Family) error {
		n, err := f.MustResolve(chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		if key, ok := f.KeyOf(n.ID); ok {
			delete(f.Keys, key)
		}
		f.RemoveMember(n.ID)
		f.BuildLocationEdgesWithin(s.proximityKm)
		left = f.Len()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.SetMembers(left)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDistances(w http.ResponseWriter, r *http.Request) {
	var resp []distanceResponse
	err := s.withFamily(func(f *pipeline.Family) error {
		n, err := f.MustResolve(chi.URLParam(r, "id"))
		if err != nil {
			return err
		}

		var dists []family.Distance
		switch mode := r.URL.Query().Get("mode"); mode {
		case "", "direct":
			dists, err = f.DistancesFrom(n.ID)
		case "network":
			dists, err = f.NetworkDistancesFrom(n.ID)
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown mode %q (must be direct or network)", mode)
		}
		if err != nil {
			return err
		}

		resp = make([]distanceResponse, len(dists))
		for i, d := range dists {
			m, _ := f.Member(d.ID)
			resp[i] = distanceResponse{ID: d.ID.String(), Label: m.Value.FullName()}
			if d.Reachable() {
				km := d.Km
				resp[i].Km = &km
			}
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var resp routeResponse
	err := s.withFamily(func(f *pipeline.Family) error {
		from, err := f.MustResolve(q.Get("from"))
		if err != nil {
			return err
		}
		to, err := f.MustResolve(q.Get("to"))
		if err != nil {
			return err
		}
		stops, km, err := f.Route(from.ID, to.ID)
		if err != nil {
			return err
		}
		resp.Km = km
		resp.Stops = make([]graph.Node, len(stops))
		for i, n := range stops {
			resp.Stops[i] = graph.NodeFromPerson(n.Value)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse
	_ = s.withFamily(func(f *pipeline.Family) error {
		resp.Members = f.Len()
		if st, ok := f.PairStats(); ok {
			resp.Distances = &st
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.requestOptions(r, r.URL.Query().Get("type"))
	var l graph.Layout
	var hit bool
	err := s.withFamily(func(f *pipeline.Family) error {
		var err error
		l, hit, err = s.runner.LayoutWithCacheInfo(r.Context(), f, opts)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSVG(vizType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := s.requestOptions(r, vizType)
		opts.Formats = []string{pipeline.FormatSVG}
		if vizType != "nodelink" {
			opts.From = r.URL.Query().Get("from")
		}

		var svg []byte
		var hit bool
		err := s.withFamily(func(f *pipeline.Family) error {
			l, h, err := s.runner.LayoutWithCacheInfo(r.Context(), f, opts)
			if err != nil {
				return err
			}
			artifacts, err := s.runner.Render(r.Context(), f, l, opts)
			if err != nil {
				return err
			}
			svg, hit = artifacts[pipeline.FormatSVG], h
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		setCacheHeader(w, hit)
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.Reload()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": n})
}

// =============================================================================
// Helpers
// =============================================================================

// requestOptions starts from the server defaults and applies the style
// query parameter. An empty vizType keeps the default.
func (s *Server) requestOptions(r *http.Request, vizType string) pipeline.Options {
	opts := s.defaults
	opts.Formats = nil
	opts.From = ""
	if vizType != "" {
		opts.VizType = vizType
	}
	if style := r.URL.Query().Get("style"); style != "" {
		opts.Style = style
	}
	return opts
}

func nodeIDs(nodes []*family.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID.String()
	}
	return out
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"response could not be encoded","code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}
