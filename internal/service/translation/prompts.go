package translation

import "fmt"

const (
	sampleTemperature  = 0.1
	arbiterTemperature = 0.0
)

func freeTextPrompt(text string) string {
	return fmt.Sprintf(`아래 애니메이션 관련 글을 자연스러운 한국어로 옮겨 주세요.

원문:
%s

지켜야 할 점:
- 한국 독자가 편하게 읽을 수 있는 문장으로 다듬을 것
- 인물 이름은 뜻을 풀지 말고 원래 발음대로 한글로 적을 것
- 부연 설명 없이 번역문만 출력할 것`, text)
}

func titlePrompt(title string) string {
	return fmt.Sprintf(`애니메이션 제목 "%s"의 한국 공식 제목을 알려 주세요.

지켜야 할 점:
- 영어나 일본어 부제는 빼고 한국어 본제목만 남길 것
- 부연 설명 없이 제목만 출력할 것`, title)
}

func arbiterPrompt(first, second string) string {
	return fmt.Sprintf(`두 번역 후보 중 한국 공식 애니메이션 제목 규칙(한국어 본제목만, 부제 없음)에 더 맞는 것을 고르세요.

후보 1: %s
후보 2: %s

둘 다 적절하지 않으면 직접 다시 번역하세요. 마지막 줄에 최종 제목 하나만 출력하고 설명은 붙이지 마세요.`, first, second)
}

func searchPrompt(term string) string {
	return fmt.Sprintf(`Convert this anime search term into the short English or romanized title best suited for searching the AniList catalog. Output only the title, no explanation.

Search term: %s`, term)
}
