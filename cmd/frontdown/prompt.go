package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/frontdown/frontdown/internal/decision"
)

// interactiveCallback resolves a decision.Request by asking the operator
// on the controlling terminal, for target_drive_full_action /
// source_unavailable_action fields configured as "prompt".
func interactiveCallback(request decision.Request) bool {
	fmt.Printf("%s: %s (source %q). Proceed? [y/N] ", request.Kind, request.Detail, request.Source)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
