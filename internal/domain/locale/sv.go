package locale

import "github.com/okian/clubperf/internal/domain/model"

var swedish = &Dictionary{ //nolint:gochecknoglobals // static text table
	Language: model.LanguageSwedish,
	Advice: AdviceText{
		TitlePerf:        "Snabbare vändning",
		TitleBal:         "Starkare fotisättning + symmetri",
		TitlePerfBal:     "Snabbare vändning + starkare fotisättning",
		TitlePerfBalAsym: "Snabbare vändning + symmetri",
		WhyPerfFormat:    "Vändningshastighet är under målet (%d/100).",
		WhyBalFormat:     "Vänster/höger-balans är under målet (%d/100).",
		WhyAsymFormat:    "Stor skillnad vänster/höger (%.1f%%).",
		ActBraking:       "Coacha inbromsning: låga höfter, bröst över tår, starka sista 2 stegen.",
		ActReaccel:       "Explodera ut: tryck ifrån (första 2 stegen).",
		ActPlant:         "Fotisättning: stabil fotled/knä, inget knäfall, träffa samma punkt.",
		ActWeakSide:      "Börja rep på den svagare riktningen (extra 2–3 rep).",
		ActTrack:         "Testa om 2–4 veckor; mål <10% skillnad vänster/höger.",
	},
	TrigTeamAsymFormat: "Lagets genomsnittliga asymmetri > %s%%",
	Trig30:             "≥30% av spelarna > 10% asymmetri",
	TitleAsym:          "Symmetri vid riktningsförändring",
	AsymItems: []string{
		"Inkludera vänster/höger COD-rep varje pass (balanserad volym).",
		"Följ asymmetrin varje vecka; mål <10% för de flesta spelare.",
		"Prioritera inbromsning + fotisättning på den långsammare sidan.",
	},
	TrigSlowerMedian: "Lagets snitt är långsammare än median-tröskeln",
	TitlePerf:        "5-0-5 prestation (tid)",
	PerfItems: []string{
		"Lägg till 1–2 korta COD-exponeringar/vecka (kvalitet, full vila).",
		"Coacha bålstabilitet + skenvinkel vid in- och utgång.",
		"Använd tidtagna set för att behålla intention (1–3 rep per set).",
	},
	TrigMoreLeft:  "Fler spelare är långsammare vid vänstersväng",
	TrigMoreRight: "Fler spelare är långsammare vid högersväng",
	TitleBias:     "Riktningsbias",
	BiasItems: []string{
		"Om en bias finns: starta COD-block med den svagare riktningen.",
		"Håll total vänster/höger-volym lika över veckan.",
		"Testa om efter 2–4 veckor för att bekräfta förändring.",
	},
	Sessions: SessionText{
		Equipment: "Konor + tidtagning (klocka eller gates)",
		S1Title:   "Pass 1: Inbromsning + fotisättning",
		S1Goal:    "Bättre broms + renare fotisättning.",
		S2Title:   "Pass 2: Vändningshastighet + symmetri",
		S2Goal:    "Snabbare vändningar + mindre skillnad vänster/höger.",
		Warmup: Block{
			Title:    "Uppvärmning (10 min)",
			Work:     "Rörlighet + 2×10m stegring + 2×bromsa & håll.",
			Coaching: []string{"Sänk höfterna innan vändning.", "Stabil bål."},
		},
		Braking: Block{
			Title:    "Inbromsning till fotisättning (10–12 min)",
			Work:     "4×3 rep: 5m sprint → hård broms → fotisättning → 2 steg ut. Full vila.",
			Coaching: []string{"Bröst över tår, låga höfter.", "Starka sista 2 stegen."},
		},
		COD505: Block{
			Title:    "Tidtagna vändningar (10 min)",
			Work:     "2×3 rep per riktning. Full vila. Ta tid.",
			Coaching: []string{"Attackera in. Ren fotisättning. Explodera ut.", "Samma fotisättningspunkt."},
		},
		WeakSide: Block{
			Title:    "Extra svag sida (6–8 min)",
			Work:     "+2 rep per spelare på svagare vändning (endast kvalitet).",
			Coaching: []string{"Börja på svag sida.", "Avbryt när kvaliteten faller."},
		},
	},
}
