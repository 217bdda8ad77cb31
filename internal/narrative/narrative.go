// Package narrative renders an evidence bundle into the grounded FMEA prompt
// text consumed by the external risk-narrative generator. The LLM call itself
// stays outside this module.
package narrative

import (
	"fmt"
	"strings"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// noValue marks fields the source record left empty.
const noValue = "N/A"

func orNA(s string) string {
	if s == "" {
		return noValue
	}
	return s
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return noValue
	}
	return strings.Join(items, ", ")
}

// FormatSRSource renders one SR match as a grounded source block.
func FormatSRSource(m schema.SRMatch) string {
	created := noValue
	if !m.SR.CreatedDate.IsZero() {
		created = m.SR.CreatedDate.Format("2006-01-02")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SR ID: %s\n", orNA(m.SR.ID))
	fmt.Fprintf(&b, "제목: %s\n", orNA(m.SR.Title))
	fmt.Fprintf(&b, "설명: %s\n", orNA(m.SR.Description))
	fmt.Fprintf(&b, "시스템: %s\n", orNA(m.SR.System))
	fmt.Fprintf(&b, "우선순위: %s\n", orNA(string(m.SR.Priority)))
	fmt.Fprintf(&b, "카테고리: %s\n", orNA(m.SR.Category))
	fmt.Fprintf(&b, "생성일: %s\n", created)
	fmt.Fprintf(&b, "기술 요구사항: %s\n", joinOrNA(m.SR.TechnicalRequirements))
	fmt.Fprintf(&b, "영향받는 컴포넌트: %s\n", joinOrNA(m.SR.AffectedComponents))
	fmt.Fprintf(&b, "유사도 점수: %.4f (%s)\n", m.Score, contract.GetPlainLabel(m.Score))
	b.WriteString("---")
	return b.String()
}

// FormatIncidentSource renders one incident match as a grounded source block.
func FormatIncidentSource(m schema.IncidentMatch) string {
	occurred := noValue
	if !m.Incident.OccurredDate.IsZero() {
		occurred = m.Incident.OccurredDate.Format("2006-01-02")
	}
	resolution := "미해결"
	if m.RiskFactors.HasResolution {
		resolution = m.Incident.Resolution
	}
	var b strings.Builder
	fmt.Fprintf(&b, "장애 ID: %s\n", orNA(m.Incident.ID))
	fmt.Fprintf(&b, "제목: %s\n", orNA(m.Incident.Title))
	fmt.Fprintf(&b, "내용: %s\n", orNA(m.Incident.Description))
	fmt.Fprintf(&b, "시스템: %s\n", orNA(m.Incident.System))
	fmt.Fprintf(&b, "심각도: %s\n", orNA(string(m.RiskFactors.Severity)))
	fmt.Fprintf(&b, "발생일: %s (%s)\n", occurred, string(m.TemporalRelevance))
	fmt.Fprintf(&b, "근본 원인: %s\n", orNA(m.RiskFactors.RootCause))
	fmt.Fprintf(&b, "영향 사용자 수: %d\n", m.RiskFactors.AffectedUsers)
	fmt.Fprintf(&b, "장애 시간: %s\n", m.RiskFactors.Duration)
	fmt.Fprintf(&b, "비즈니스 영향: %s\n", orNA(m.RiskFactors.BusinessImpact))
	fmt.Fprintf(&b, "해결 방안: %s\n", orNA(resolution))
	fmt.Fprintf(&b, "연관도 점수: %.4f (%s)\n", m.Score, contract.GetPlainLabel(m.Score))
	b.WriteString("---")
	return b.String()
}

// formatSources joins formatted source blocks, or a placeholder when an
// engine came back empty (degraded or genuinely no matches).
func formatSources(blocks []string) string {
	if len(blocks) == 0 {
		return "(검색 결과 없음)"
	}
	return strings.Join(blocks, "\n")
}

// BuildFMEAPrompt renders the complete grounded FMEA analysis prompt from an
// evidence bundle. Warnings are surfaced inside the prompt so the narrative
// generator knows one engine degraded.
func BuildFMEAPrompt(bundle *schema.EvidenceBundle) string {
	srBlocks := make([]string, len(bundle.SRResults))
	for i, m := range bundle.SRResults {
		srBlocks[i] = FormatSRSource(m)
	}
	incidentBlocks := make([]string, len(bundle.IncidentResults))
	for i, m := range bundle.IncidentResults {
		incidentBlocks[i] = FormatIncidentSource(m)
	}

	var warnings string
	if len(bundle.Warnings) > 0 {
		warnings = "\n## 주의\n- " + strings.Join(bundle.Warnings, "\n- ") + "\n"
	}

	return fmt.Sprintf(fmeaPromptTemplate,
		bundle.Query.Text(),
		len(bundle.SRResults),
		len(bundle.IncidentResults),
		warnings,
		formatSources(srBlocks),
		formatSources(incidentBlocks),
	)
}

// fmeaPromptTemplate is the grounded FMEA analysis request. Placeholders:
// query text, SR count, incident count, warnings block, SR sources,
// incident sources.
const fmeaPromptTemplate = `당신은 FMEA(Failure Mode and Effects Analysis) 기반 리스크 분석 전문가입니다.
제공된 연관 SR과 유사 장애 정보를 바탕으로 개발 과제에 대한 리스크를 분석하세요.

## 분석 대상
- **개발 과제**: %s
- **연관 SR 수**: %d개
- **유사 장애 수**: %d개
%s
## 연관 SR 정보
%s

## 유사 장애 정보
%s

## FMEA 분석 요구사항

### 1. 잠재적 실패 모드 (Failure Modes) 식별
연관 SR과 유사 장애를 기반으로 기능적/성능적/보안적/사용성/호환성 관점에서 실패 모드를 식별하세요.

### 2. 실패 원인 (Failure Causes) 분석
각 실패 모드에 대한 기술적/설계적/운영적/환경적 근본 원인을 분석하세요.

### 3. 실패 영향 (Failure Effects) 평가
각 실패가 비즈니스, 사용자, 시스템, 보안에 미칠 영향을 분석하세요.

### 4. 위험도 평가 (Risk Assessment)
각 실패 모드에 대해 발생 가능성(Occurrence), 심각도(Severity), 탐지 가능성(Detection)을
1~10점으로 평가하고 RPN (Risk Priority Number) = 발생 가능성 × 심각도 × 탐지 가능성을 계산하세요.

### 5. 개발 가이드 및 권장사항
각 위험에 대한 예방/탐지/완화 조치와 모니터링 방안을 제시하세요.

## 출력 형식

다음 JSON 형식으로 출력하세요:

` + "```json" + `
{
    "summary": {
        "total_risks": "총 위험 요소 수",
        "high_risk_count": "고위험 요소 수 (RPN > 100)",
        "medium_risk_count": "중위험 요소 수 (RPN 50-100)",
        "low_risk_count": "저위험 요소 수 (RPN < 50)",
        "overall_risk_score": "전체 위험도 점수 (0-10)"
    },
    "risk_factors": [
        {
            "id": "R001",
            "failure_mode": "실패 모드명",
            "failure_cause": "실패 원인",
            "failure_effect": "실패 영향",
            "occurrence": 5,
            "severity": 7,
            "detection": 6,
            "rpn": 210,
            "risk_level": "High",
            "mitigation_measures": ["완화 방안 1", "완화 방안 2"]
        }
    ],
    "development_guidelines": ["개발 가이드라인 1"],
    "monitoring_recommendations": ["모니터링 권장사항 1"]
}
` + "```" + `

위험도 점수는 0-10 척도로 평가하며, 10에 가까울수록 위험도가 높습니다.
`
