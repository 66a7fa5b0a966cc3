package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
	Out       io.Writer
}

func (c *client) do(method, path string) (int, []byte, error) {
	req, err := http.NewRequest(method, strings.TrimRight(c.BaseURL, "/")+path, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	return resp.StatusCode, b, nil
}

// call ejecuta el request, falla en status no-2xx e imprime el body.
func (c *client) call(op, method, path string) error {
	status, body, err := c.do(method, path)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("%s fallo: status=%d body=%s", op, status, strings.TrimSpace(string(body)))
	}
	c.print(status, body)
	return nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintln(c.Out, string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Fprintln(c.Out, strings.TrimSpace(string(body)))
	} else {
		fmt.Fprintf(c.Out, "status=%d\n", status)
	}
}

func userPath(prefix, userID string) string {
	return prefix + url.PathEscape(userID)
}

func recordingsPath(userID, from, to string, pageSize int) string {
	q := url.Values{}
	q.Set("user_id", userID)
	if from != "" {
		q.Set("from_date", from)
	}
	if to != "" {
		q.Set("to_date", to)
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprint(pageSize))
	}
	return "/recordings?" + q.Encode()
}
