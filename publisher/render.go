package publisher

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DigestLimit is the rune budget for draft digests; WeChat truncates
// anything much longer.
const DigestLimit = 60

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	headingRe = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)

	headingSizes = [...]string{"24px", "22px", "20px", "18px", "16px", "15px"}
)

// blockTags end a line of visible text when building a digest.
const blockTags = "p, div, li, h1, h2, h3, h4, h5, h6, blockquote, pre, tr, br"

// Rendered is an article body ready for draft/add.
type Rendered struct {
	Content string `json:"content"`
	Digest  string `json:"digest"`
}

// RenderMarkdown converts markdown to HTML the WeChat editor keeps intact and
// derives a digest from the resulting text.
func RenderMarkdown(md string) (Rendered, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return Rendered{}, fmt.Errorf("convert markdown: %w", err)
	}
	html, err := normalizeForWeChat(buf.String())
	if err != nil {
		return Rendered{}, err
	}

	digest, err := Digest(html, DigestLimit)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Content: html, Digest: digest}, nil
}

// WeChat 会弱化列表和标题标签，导致有序列表合并、标题样式丢失。
// 上传前把标题转成带字号的段落，把列表展开成普通段落。
func normalizeForWeChat(html string) (string, error) {
	return flattenLists(headingsToParagraphs(html))
}

func headingsToParagraphs(html string) string {
	return headingRe.ReplaceAllStringFunc(html, func(block string) string {
		parts := headingRe.FindStringSubmatch(block)
		level := int(parts[1][0] - '1')
		return fmt.Sprintf(`<p style="font-size:%s;font-weight:700;margin:1em 0 0.6em;">%s</p>`,
			headingSizes[level], strings.TrimSpace(parts[2]))
	})
}

// flattenLists replaces lists with marker paragraphs, innermost first, so a
// nested list ends up as plain paragraphs below its parent item.
func flattenLists(html string) (string, error) {
	if !strings.Contains(html, "<ul") && !strings.Contains(html, "<ol") {
		return html, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	for {
		innermost := doc.Find("ul, ol").FilterFunction(func(_ int, list *goquery.Selection) bool {
			return list.Find("ul, ol").Length() == 0
		})
		if innermost.Length() == 0 {
			break
		}
		innermost.Each(func(_ int, list *goquery.Selection) {
			list.ReplaceWithHtml(listToParagraphs(list))
		})
	}
	return doc.Find("body").Html()
}

func listToParagraphs(list *goquery.Selection) string {
	marker := func(int) string { return "• " }
	if goquery.NodeName(list) == "ol" {
		start := 1
		if v, ok := list.Attr("start"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				start = n
			}
		}
		marker = func(i int) string { return strconv.Itoa(start+i) + ". " }
	}

	var b strings.Builder
	list.ChildrenFiltered("li").Each(func(i int, item *goquery.Selection) {
		for j, text := range itemParagraphs(item) {
			b.WriteString("<p>")
			if j == 0 {
				b.WriteString(marker(i))
			}
			b.WriteString(text)
			b.WriteString("</p>")
		}
	})
	return b.String()
}

// itemParagraphs splits a list item into its inline text and the paragraphs
// it contains (loose items, already flattened sub-lists).
func itemParagraphs(item *goquery.Selection) []string {
	var (
		out    []string
		inline strings.Builder
	)
	flush := func() {
		if text := strings.TrimSpace(inline.String()); text != "" {
			out = append(out, text)
		}
		inline.Reset()
	}
	item.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "p" {
			flush()
			if text, err := node.Html(); err == nil && strings.TrimSpace(text) != "" {
				out = append(out, strings.TrimSpace(text))
			}
			return
		}
		if text, err := goquery.OuterHtml(node); err == nil {
			inline.WriteString(text)
		}
	})
	flush()
	return out
}

// Digest returns the first limit runes of the visible text in html, with an
// ellipsis when something was cut.
func Digest(html string, limit int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(blockTags).AfterHtml(" ")
	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text, nil
	}
	return string(runes[:limit]) + "...", nil
}
