package search

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/util"
)

const snippetContextChars = 60

// File scans a session log file line by line and returns the positions of
// lines matching the query, oldest first. Stops after maxResults matches
// and reports truncation. A query with no usable terms yields an empty
// response without touching the file.
func File(path string, query string, maxResults int) model.SearchResponse {
	empty := model.SearchResponse{Matches: []model.SearchMatch{}}

	expr := Parse(query)
	if expr == nil {
		return empty
	}
	if maxResults <= 0 {
		maxResults = 10000
	}

	file, err := os.Open(path)
	if err != nil {
		util.LogDebugf("Search open failed: %s - %v", path, err)
		return empty
	}
	defer file.Close()

	terms := expr.Terms()
	resp := model.SearchResponse{Matches: []model.SearchMatch{}}

	// bufio.Reader instead of Scanner: byte offsets must account for the
	// newline bytes Scanner strips.
	reader := bufio.NewReaderSize(file, 256*1024)
	var offset int64
	sequence := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			trimmed := strings.TrimRight(line, "\r\n")
			resp.TotalSearched++
			if expr.Matches(trimmed) {
				text := extractText(trimmed)
				resp.Matches = append(resp.Matches, model.SearchMatch{
					Sequence:   sequence,
					ByteOffset: offset,
					Snippet:    buildSnippet(text, terms, snippetContextChars),
				})
				if len(resp.Matches) >= maxResults {
					resp.Truncated = true
					return resp
				}
			}
			offset += int64(len(line))
			sequence++
		}
		if err != nil {
			if err != io.EOF {
				util.LogDebugf("Search read failed: %s - %v", path, err)
			}
			return resp
		}
	}
}
