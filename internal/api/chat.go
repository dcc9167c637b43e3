package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/hinwong/salescast/internal/inference"
	"github.com/hinwong/salescast/internal/persona"
	"github.com/hinwong/salescast/internal/prompt"
)

func (s *Server) handleChat(c *echo.Context) error {
	if s.engine == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "inference engine not configured")
	}

	req, err := decodeJSON[ChatRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	opts, streamer, err := s.chatToRequestOptions(c, &req)
	if err != nil {
		if errors.Is(err, persona.ErrNotFound) {
			return writeNotFound(c, err.Error())
		}
		return writeBadRequest(c, err.Error())
	}

	if !s.limiter.Allow() {
		return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "too many chat requests")
	}

	// Single accelerator: one decode run at a time.
	ctx := c.Request().Context()
	select {
	case s.runSlot <- struct{}{}:
		defer func() { <-s.runSlot }()
	case <-ctx.Done():
		return writeError(c, http.StatusServiceUnavailable, "server_error", "request cancelled while waiting for the model")
	}

	chatID := newChatID()
	infReq := inference.ResolveRequest(opts, s.defaults)

	if req.Stream {
		return s.streamChat(c, chatID, streamer, &infReq)
	}

	result, err := s.engine.Generate(ctx, &infReq, nil)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.JSON(http.StatusOK, ChatResponse{
		ID:       chatID,
		Object:   "chat.response",
		Created:  s.clock().Unix(),
		Streamer: streamer,
		Text:     result.Text,
		Usage: ChatUsage{
			CompletionTokens: result.Stats.TokensGenerated,
			TokensPerSecond:  result.Stats.TPS,
		},
	})
}

func (s *Server) streamChat(c *echo.Context, chatID, streamer string, infReq *inference.Request) error {
	writer, err := NewChatStreamWriter(c, chatID)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	result, err := s.engine.Generate(c.Request().Context(), infReq, func(text string) {
		if emitErr := writer.Emit(text); emitErr != nil {
			s.log.Debug("chat stream write failed", "chat_id", chatID, "error", emitErr)
		}
	})
	if err != nil {
		s.log.Error("chat generation failed", "chat_id", chatID, "streamer", streamer, "error", err)
		_ = writer.Failed(err)
		return nil
	}

	_ = writer.Done(result.Text, ChatUsage{
		CompletionTokens: result.Stats.TokensGenerated,
		TokensPerSecond:  result.Stats.TPS,
	})
	return nil
}

// chatToRequestOptions validates the chat request, resolves the persona,
// and splits messages into history plus the current user turn.
func (s *Server) chatToRequestOptions(c *echo.Context, req *ChatRequest) (inference.RequestOptions, string, error) {
	if len(req.Messages) == 0 {
		return inference.RequestOptions{}, "", newInvalidRequest("messages is required and must not be empty")
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != prompt.RoleUser {
		return inference.RequestOptions{}, "", newInvalidRequest("the final message must have role \"user\"")
	}

	system := defaultInstruction(req.Product)
	streamerName := ""
	if req.StreamerID != 0 {
		if s.store == nil {
			return inference.RequestOptions{}, "", newInvalidRequest("streamer_id given but no streamer store is configured")
		}
		st, err := s.store.Get(c.Request().Context(), req.StreamerID)
		if err != nil {
			return inference.RequestOptions{}, "", err
		}
		system = st.Instruction(req.Product)
		streamerName = st.Name
	}

	return inference.RequestOptions{
		System:            system,
		History:           req.Messages[:len(req.Messages)-1],
		UserTurn:          last.Content,
		MaxNewTokens:      req.MaxNewTokens,
		MaxLength:         req.MaxLength,
		TopP:              req.TopP,
		Temperature:       req.Temperature,
		DoSample:          req.DoSample,
		RepetitionPenalty: req.RepetitionPenalty,
		Seed:              req.Seed,
	}, streamerName, nil
}

func defaultInstruction(product *persona.Product) string {
	anon := persona.Streamer{Name: "the host"}
	return anon.Instruction(product)
}
