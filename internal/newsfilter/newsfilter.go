// Package newsfilter rejects non-news titles/URLs before an article enters
// the classification and clustering pipeline, ported from
// original_source/src/news.rs.
package newsfilter

import (
	"net/url"
	"regexp"
	"strings"

	"newsthreads/internal/models"
)

var (
	badString = []*regexp.Regexp{
		regexp.MustCompile(`(reasons to|review|quick start|interview|case study|can be|watch now|how to|guide to|will you|things in|can do|this day in time|steps to|ways on|types of|to get|top picks|need to|have to|must have|things to|will put|should have|this date|simple tip|to help you|why the|it's time|it is time|hands on|it's about|what to)\s+`),
		regexp.MustCompile(`^[\d\s]*(do|does|why|what|how to|are|is|can|you|use|my|why|on|this|did|where|here|how|things|have)\s+`),
	}

	badStringRu = []*regexp.Regexp{
		regexp.MustCompile(`(причина|будут|интервью|обзор|быстрый старт|лучший,интервь|тематическое исследование|этот день|может быть|смотреть сейчас|пути|как|как|руководство|вы|вещи|можете сделать)\s`),
		regexp.MustCompile(`^(елать|делает|почему|что|каk|есть|может|вы|использовать|мой|я|почему|по этому|сделал)\s`),
	}

	listRegex = []*regexp.Regexp{
		regexp.MustCompile(`\d+\s*(акци|банальн|важн|вещ|вопрос|главн|животн|знаменит|качествен|книг|лайфхак|лучш|мобил|необычн|популяр|привыч|прилож|причин|признак|продукт|прост|професс|самы|способ|технолог|худш|урок|шаг|факт|фильм|экзотичес|adorable|big|beaut|best|creative|crunchy|easy|huge|fantastic|innovative|iconic|baking|inspiring|perfect|stunning|stylish|unconventional|unexpected|wacky|wondeful|worst|habit|event|food|gift|question|reason|sign|step|thing|tip|trick|way)`),
		regexp.MustCompile(`^\d+.{0,16} (акци|банальн|важн|вещ|вопрос|главн|животн|знаменит|качествен|книг|лайфхак|лучш|мобил|необычн|популяр|привыч|прилож|причин|признак|продукт|прост|професс|самы|способ|технолог|худш|урок|шаг|факт|фильм|экзотичес|adorable|big|beaut|best|creative|crunchy|easy|huge|fantastic|innovative|iconic|baking|inspiring|perfect|stunning|stylish|unconventional|unexpected|wacky|wondeful|worst|habit|event|food|gift|question|reason|sign|step|thing|tip|trick|way)`),
		regexp.MustCompile(`^(the|top|топ)[\s-]\d+`),
	}

	saleRegex        = regexp.MustCompile(`(on|for) sale|(anniversary|apple|huge|amazon|friday|monday|christmas|fragrance|%) sale`)
	badPhrasesRegex  = regexp.MustCompile(`(смотреть онлайн|можно приобрести|стоит всего|со скидкой|лучшие скидки|составлен топ|простой способ|простейший способ|способа|способов|free download|shouldn't miss|of the week|рецепт|правила|the week in)`)
)

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// IsNews decides whether (title, rawURL) passes the per-language news
// filter. title is matched case-insensitively; callers should pass the
// already-lowercased title to match the reference behavior exactly, but
// IsNews lowercases defensively either way.
func IsNews(lang models.Language, title, rawURL string) bool {
	title = strings.ToLower(title)

	if saleRegex.MatchString(title) || anyMatch(listRegex, title) || badPhrasesRegex.MatchString(title) {
		return false
	}

	if lang == models.LanguageRu {
		return !anyMatch(badStringRu, title)
	}

	return isNewsEn(title, rawURL)
}

func isNewsEn(title, rawURL string) bool {
	path := urlPath(rawURL)

	if strings.Contains(path, "news") {
		return true
	}
	if strings.Contains(title, "?") ||
		strings.Contains(path, "blog") ||
		strings.Contains(path, "history") ||
		strings.Contains(path, "opinion") {
		return false
	}
	if anyMatch(badString, title) {
		return false
	}

	if len(strings.Fields(title)) <= 3 {
		return false
	}
	return true
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}
