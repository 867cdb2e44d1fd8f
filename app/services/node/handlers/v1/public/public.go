// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	v1 "github.com/ardanlabs/radcoin/business/web/v1"
	"github.com/ardanlabs/radcoin/foundation/blockchain/state"
	"github.com/ardanlabs/radcoin/foundation/events"
	"github.com/ardanlabs/radcoin/foundation/validate"
	"github.com/ardanlabs/radcoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	h.Log.Infow("websocket open", "traceid", v.TraceID, "id", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Head returns the latest block and the length of the chain.
func (h Handlers) Head(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := head{
		Length: h.State.Len(),
		Block:  toBlock(h.State.Head()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByNumber returns the blocks in the requested range. Without a range
// the whole chain is returned. Either bound can be "latest".
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	toStr := web.Param(r, "to")

	if fromStr == "" {
		fromStr = "0"
	}
	if toStr == "" {
		toStr = "latest"
	}

	from, err := parseNumber(fromStr)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("from: %w", err), http.StatusBadRequest)
	}

	to, err := parseNumber(toStr)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("to: %w", err), http.StatusBadRequest)
	}

	if from > to && to != state.QueryLatest {
		return v1.NewRequestError(errors.New("from greater than to"), http.StatusBadRequest)
	}

	dbBlocks := h.State.QueryBlocksByNumber(from, to)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Block returns the block with the specified number.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := parseNumber(web.Param(r, "num"))
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	blk, ok := h.State.QueryBlock(num)
	if !ok {
		return v1.NewRequestError(fmt.Errorf("block %d not found", num), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// VerifyTransaction reports if the signed transaction in the body carries a
// valid signature.
func (h Handlers) VerifyTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req verifyRequest
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	stx := req.toSignedTx()

	valid, err := h.State.VerifyTransaction(stx)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("verify tx", "traceid", web.GetTraceID(ctx), "tx", stx.Tx, "valid", valid)

	return web.Respond(ctx, w, verifyResponse{Valid: valid}, http.StatusOK)
}

// =============================================================================

func parseNumber(s string) (uint64, error) {
	if s == "latest" {
		return state.QueryLatest, nil
	}

	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", s)
	}

	return num, nil
}
