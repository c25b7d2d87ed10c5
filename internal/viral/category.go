package viral

import "strings"

// CategoryOther is the sentinel for items no keyword list claims.
const CategoryOther = "other"

type categoryRule struct {
	name     string
	keywords []string
}

// categoryRules is scanned in order and the first match wins, so the
// declaration order is part of the classifier's contract.
var categoryRules = []categoryRule{
	{"beauty", []string{"메이크업", "스킨케어", "뷰티", "화장", "코스메틱", "makeup", "skincare", "beauty", "メイク", "コスメ"}},
	{"celebrity", []string{"아이돌", "배우", "연예인", "셀럽", "스타", "idol", "celebrity", "star", "アイドル"}},
	{"lifehack", []string{"꿀팁", "라이프해킹", "정리", "살림", "노하우", "tips", "lifehack", "organize", "hack"}},
	{"fitness", []string{"다이어트", "운동", "헬스", "요가", "건강", "diet", "workout", "fitness", "health"}},
	{"tech", []string{"스마트폰", "아이폰", "가전", "테크", "smartphone", "tech", "gadget"}},
	{"animals", []string{"강아지", "고양이", "동물", "펫", "pet", "animal", "dog", "cat", "猫", "犬"}},
	{"entertainment", []string{"영화", "드라마", "리뷰", "예고편", "movie", "drama", "trailer", "review", "アニメ"}},
	{"knowledge", []string{"역사", "과학", "교육", "상식", "지식", "history", "science", "education"}},
	{"truecrime", []string{"사건", "실화", "미스터리", "범죄", "법정", "crime", "mystery", "court"}},
}

// Categories returns all category labels in classification order,
// excluding the "other" sentinel.
func Categories() []string {
	names := make([]string, 0, len(categoryRules))
	for _, r := range categoryRules {
		names = append(names, r.name)
	}
	return names
}

// Categorize classifies an item from its title and optional
// description. Matching is a case-insensitive substring scan over the
// ordered keyword lists; unmatched items fall through to "other".
func Categorize(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.name
			}
		}
	}
	return CategoryOther
}
