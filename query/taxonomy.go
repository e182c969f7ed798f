package query

import "strings"

// Category is one entry of the domain taxonomy: a category key and the
// synonyms (Chinese and English) that signal it.
type Category struct {
	Name     string
	Synonyms []string
}

// Taxonomy is an ordered list of categories.
type Taxonomy []Category

// Match records every category with a synonym occurring in text
// (case-insensitive substring), along with each matching synonym.
func (t Taxonomy) Match(text string) (categories, keywords []string) {
	lower := strings.ToLower(text)
	for _, c := range t {
		for _, syn := range c.Synonyms {
			if strings.Contains(lower, strings.ToLower(syn)) {
				categories = append(categories, c.Name)
				keywords = append(keywords, syn)
			}
		}
	}
	return categories, keywords
}

// DefaultTaxonomy returns the ESG taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		// environmental
		{"environment", []string{"环境", "environment", "环保", "排放", "emission", "碳", "carbon"}},
		{"nitrogen_oxide", []string{"氮氧化物", "nitrogen oxide", "NOx", "NO2"}},
		{"voc_emissions", []string{"VOC排放", "VOC emissions", "挥发性有机化合物", "volatile organic compound"}},
		{"carbon_monoxide", []string{"一氧化碳", "carbon monoxide", "CO"}},
		{"methane", []string{"甲烷", "methane", "CH4"}},
		{"particulate", []string{"颗粒物", "particulate", "PM", "粉尘"}},
		{"energy_consumption", []string{"能源消耗", "energy consumption", "能耗"}},
		{"renewable_energy", []string{"可再生能源", "renewable energy", "清洁能源"}},
		{"water_emissions", []string{"水排放", "water emissions", "废水排放"}},
		{"hazardous_waste", []string{"危险废物", "hazardous waste", "有害废物"}},

		// social
		{"social", []string{"社会", "social", "社会责任", "social responsibility"}},
		{"workforce", []string{"劳动力", "workforce", "员工", "employee", "人员"}},
		{"women_workforce", []string{"女性员工", "women workforce", "女性劳动力", "pct women", "women percentage", "Pct Women in Workforce"}},
		{"diversity", []string{"多样性", "diversity", "多元化"}},
		{"safety", []string{"安全", "safety", "职业安全", "occupational safety"}},
		{"training", []string{"培训", "training", "教育", "education"}},
		{"community", []string{"社区", "community", "社区参与", "community engagement"}},
		{"human_rights", []string{"人权", "human rights", "员工权利", "worker rights"}},
		{"indigenous_rights", []string{"原住民权利", "indigenous rights", "土著权利"}},
		{"strikes", []string{"罢工", "strikes", "劳资纠纷", "labor disputes"}},

		// governance
		{"governance", []string{"治理", "governance", "公司治理", "corporate governance", "G类", "G类指标", "governance指标"}},
		{"board_diversity", []string{"董事会多样性", "board diversity", "董事会多元化"}},
		{"executive_compensation", []string{"高管薪酬", "executive compensation", "管理层薪酬"}},
		{"audit", []string{"审计", "audit", "审计质量", "audit quality"}},
		{"transparency", []string{"透明度", "transparency", "信息披露", "disclosure"}},
		{"ethics", []string{"道德", "ethics", "商业道德", "business ethics"}},
		{"compliance", []string{"合规", "compliance", "法规遵循", "regulatory compliance"}},
		{"risk_management", []string{"风险管理", "risk management", "风险控制"}},
		{"stakeholder", []string{"利益相关者", "stakeholder", "股东", "shareholder"}},
		{"sustainability", []string{"可持续性", "sustainability", "可持续发展"}},
		{"financial_literacy", []string{"财务素养", "financial literacy", "Financial Literacy Programs"}},
		{"management_diversity", []string{"管理层多样性", "management diversity", "Pct Minorities in Management"}},

		// combined environmental and social
		{"es_indicators", []string{"ES类", "ES类指标", "ES指标", "ES类表现", "ES表现"}},
		{"environmental_social", []string{"环境社会", "environmental social", "ES", "E&S"}},
	}
}
