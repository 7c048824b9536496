package supplier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
)

const (
	SupplierName = "Sigma-Aldrich"
	searchPath   = "/US/en/search/{cas}"
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type supplierImpl struct {
	addr   string
	client *resty.Client
}

func New() repo.SupplierRepo {
	conf := config.Global().Lookup
	return NewWithAddr(conf.SupplierAddr, conf.Timeout)
}

func NewWithAddr(addr string, timeout time.Duration) repo.SupplierRepo {
	return &supplierImpl{
		addr: strings.TrimRight(addr, "/"),
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(addr).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"),
	}
}

func (s *supplierImpl) GetProductByCAS(ctx context.Context, cas string) (*repo.CompoundInfo, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetPathParam("cas", cas).
		SetQueryParams(map[string]string{
			"focus":   "products",
			"page":    "1",
			"perpage": "30",
			"sort":    "relevance",
			"term":    cas,
			"type":    "cas_number",
		}).
		Get(searchPath)
	if err != nil {
		logger.Warnf(ctx, "request supplier catalogue cas: %s, err: %+v", cas, err)
		return nil, code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode() != http.StatusOK {
		return nil, code.RPCHttpCodeErr.WithMsgf("supplier search failed: status %d", res.StatusCode())
	}

	doc, err := html.Parse(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, code.RPCHttpErr.WithErr(err)
	}
	name := productName(doc)
	if name == "" {
		return nil, nil
	}
	return &repo.CompoundInfo{
		Name:     name,
		Supplier: SupplierName,
		SDSURL:   fmt.Sprintf("%s/US/en/sds/%s", s.addr, cas),
	}, nil
}

// productName tries, in order, the product heading, any element classed
// product-name and the first JSON-LD block carrying a name.
func productName(doc *html.Node) string {
	var heading, classed, ld string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case heading == "" && n.Data == "h1" && attr(n, "data-testid") == "product-name":
			heading = text(n)
		case classed == "" && hasClass(n, "product-name"):
			classed = text(n)
		case ld == "" && n.Data == "script" && attr(n, "type") == "application/ld+json":
			ld = jsonLDName(text(n))
		}
	})
	for _, name := range []string{heading, classed, ld} {
		if name != "" {
			return name
		}
	}
	return ""
}

func jsonLDName(raw string) string {
	doc := gjson.Parse(raw)
	if doc.IsArray() {
		doc = doc.Get("0")
	}
	return strings.TrimSpace(doc.Get("name").String())
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
