package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\n?```$")

// Decode turns raw model output into an agent Result. Output that is not JSON
// is a remote failure. An envelope of the form {"success", "result",
// "message", "error"} is honoured; any other JSON value is the result itself.
func Decode(raw string) Result {
	text := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(text); len(m) == 2 {
		text = strings.TrimSpace(m[1])
	}
	if text == "" {
		return Result{Error: "agent returned an empty response"}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return Result{Error: "agent returned malformed JSON: " + err.Error()}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return Result{Success: true, Response: &Response{Result: v}}
	}
	if _, wrapped := obj["result"]; !wrapped {
		return Result{Success: true, Response: &Response{Result: obj}}
	}
	msg, _ := obj["message"].(string)
	if success, ok := obj["success"].(bool); ok && !success {
		errMsg, _ := obj["error"].(string)
		return Result{Error: errMsg, Response: &Response{Result: obj["result"], Message: msg}}
	}
	return Result{Success: true, Response: &Response{Result: obj["result"], Message: msg}}
}
