package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/hinwong/salescast/internal/persona"
)

func (s *Server) handleListStreamers(c *echo.Context) error {
	if s.store == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "streamer store not configured")
	}
	streamers, err := s.store.List(c.Request().Context())
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	if streamers == nil {
		streamers = []persona.Streamer{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"object": "list",
		"data":   streamers,
	})
}

func (s *Server) handleCreateStreamer(c *echo.Context) error {
	if s.store == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "streamer store not configured")
	}
	payload, err := decodeJSON[StreamerPayload](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if payload.Name == "" {
		return writeBadRequest(c, "name is required")
	}
	created, err := s.store.Create(c.Request().Context(), payload.toStreamer())
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetStreamer(c *echo.Context) error {
	return s.withStreamer(c, func(st persona.Streamer) error {
		return c.JSON(http.StatusOK, st)
	})
}

func (s *Server) handleUpdateStreamer(c *echo.Context) error {
	return s.withStreamer(c, func(st persona.Streamer) error {
		payload, err := decodeJSON[StreamerPayload](c.Request().Body)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		if payload.Name == "" {
			return writeBadRequest(c, "name is required")
		}
		updated := payload.toStreamer()
		updated.ID = st.ID
		if err := s.store.Update(c.Request().Context(), updated); err != nil {
			return streamerError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	})
}

func (s *Server) handleDeleteStreamer(c *echo.Context) error {
	return s.withStreamer(c, func(st persona.Streamer) error {
		if err := s.store.Delete(c.Request().Context(), st.ID); err != nil {
			return streamerError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"streamer_id": st.ID,
			"deleted":     true,
		})
	})
}

func (s *Server) withStreamer(c *echo.Context, fn func(st persona.Streamer) error) error {
	if s.store == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "streamer store not configured")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid streamer id")
	}
	st, err := s.store.Get(c.Request().Context(), id)
	if err != nil {
		return streamerError(c, err)
	}
	return fn(st)
}

func streamerError(c *echo.Context, err error) error {
	if errors.Is(err, persona.ErrNotFound) {
		return writeNotFound(c, err.Error())
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
}
