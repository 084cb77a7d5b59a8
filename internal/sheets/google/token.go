package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/oauth2"
)

// DecodeToken reads a token written by EncodeToken.
func DecodeToken(raw []byte) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("decode oauth token: no access or refresh token")
	}
	return &tok, nil
}

func EncodeToken(w io.Writer, tok *oauth2.Token) error {
	if err := json.NewEncoder(w).Encode(tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
