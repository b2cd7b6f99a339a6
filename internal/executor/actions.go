package executor

import (
	"fmt"

	"github.com/v0xg/remotedriver/internal/wire"
)

// touchParams covers the parameters of every legacy touch command
type touchParams struct {
	Element string `json:"element"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	XOffset int    `json:"xoffset"`
	YOffset int    `json:"yoffset"`
	XSpeed  int    `json:"xspeed"`
	YSpeed  int    `json:"yspeed"`
	Speed   int    `json:"speed"`
}

// actionsParams is the body of a W3C actions command
type actionsParams struct {
	Actions []wire.PointerSource `json:"actions"`
}

// timeoutParams covers both dialects' timeout bodies
type timeoutParams struct {
	Type     string `json:"type"`
	MS       *int64 `json:"ms"`
	Implicit *int64 `json:"implicit"`
	Script   *int64 `json:"script"`
	PageLoad *int64 `json:"pageLoad"`
}

type elementParams struct {
	ID string `json:"id"`
}

// decodeParams reshapes a generic parameter map into a typed struct
func decodeParams(params wire.Params, out any) error {
	data, err := jsonAPI.Marshal(params)
	if err != nil {
		return err
	}
	if err := jsonAPI.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed params: %w", err)
	}
	return nil
}
