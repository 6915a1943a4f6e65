package toolbox

import (
	_ "embed"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/dispatch"
)

//go:embed kb.yaml
var kbData []byte

// Article is one entry in the embedded knowledge base.
type Article struct {
	Title  string `yaml:"title" json:"title"`
	Source string `yaml:"source" json:"source"`
	Body   string `yaml:"body" json:"-"`
}

// KnowledgeHit is one ranked search result.
type KnowledgeHit struct {
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

type knowledgeParams struct {
	Query string `json:"query" jsonschema:"required,description=Search terms to look up in the knowledge base"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"description=Maximum number of hits to return (default 3)"`
}

var (
	kbOnce     sync.Once
	kbArticles []Article
	kbErr      error
)

func loadKB() ([]Article, error) {
	kbOnce.Do(func() {
		var doc struct {
			Articles []Article `yaml:"articles"`
		}
		kbErr = yaml.Unmarshal(kbData, &doc)
		kbArticles = doc.Articles
	})
	return kbArticles, kbErr
}

// searchKB ranks articles by overlapping query terms. This stands in for the
// vector search that lives inside the remote service.
func searchKB(articles []Article, query string, topK int) []KnowledgeHit {
	terms := strings.Fields(strings.ToLower(query))
	hits := make([]KnowledgeHit, 0, len(articles))

	for _, a := range articles {
		haystack := strings.ToLower(a.Title + " " + a.Body)
		score := 0.0
		for _, t := range terms {
			if strings.Contains(haystack, t) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		hits = append(hits, KnowledgeHit{
			Title:   a.Title,
			Source:  a.Source,
			Snippet: snippet(a.Body, 160),
			Score:   score / float64(len(terms)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func snippet(s string, maxLen int) string {
	s = strings.TrimSpace(strings.Join(strings.Fields(s), " "))
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// KnowledgeTool searches the embedded handbook corpus.
func KnowledgeTool() dispatch.Tool {
	return dispatch.Tool{
		Def: agentsvc.ToolDef{
			Name:        "search_knowledge_base",
			Description: "Search the company handbook for policy and how-to articles.",
			Parameters:  agentsvc.Schema(knowledgeParams{}),
		},
		Run: func(params map[string]any) (any, error) {
			query, err := stringArg(params, "query")
			if err != nil {
				return nil, err
			}
			topK, err := intArg(params, "top_k", 3)
			if err != nil {
				return nil, err
			}
			if topK <= 0 {
				topK = 3
			}

			articles, err := loadKB()
			if err != nil {
				return nil, err
			}
			return struct {
				Hits []KnowledgeHit `json:"hits"`
			}{Hits: searchKB(articles, query, topK)}, nil
		},
	}
}
