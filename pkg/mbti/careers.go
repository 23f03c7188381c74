package mbti

import "strings"

type CareerMatch struct {
	SuitableCareers []string `json:"suitable_careers"`
	WorkStyle       []string `json:"work_style"`
	Strengths       []string `json:"strengths"`
	GrowthAreas     []string `json:"growth_areas"`
}

func (c CareerMatch) ToMapping() map[string]interface{} {
	return map[string]interface{}{
		"suitable_careers": c.SuitableCareers,
		"work_style":       c.WorkStyle,
		"strengths":        c.Strengths,
		"growth_areas":     c.GrowthAreas,
	}
}

var defaultCareer = CareerMatch{
	SuitableCareers: []string{"可根据更详细的自述再做分析"},
	WorkStyle:       []string{},
	Strengths:       []string{},
	GrowthAreas:     []string{},
}

var careerMatches = map[string]CareerMatch{
	"INTJ": {
		SuitableCareers: []string{"软件架构师", "数据科学家", "战略顾问", "系统分析师", "CTO"},
		WorkStyle:       []string{"独立工作", "长期规划", "创新思维", "系统化思考"},
		Strengths:       []string{"战略思维", "独立解决问题", "追求卓越", "创新能力"},
		GrowthAreas:     []string{"团队协作", "情感表达", "灵活适应"},
	},
	"ENTJ": {
		SuitableCareers: []string{"高管", "创业者", "项目经理", "产品经理", "管理顾问"},
		WorkStyle:       []string{"领导团队", "目标导向", "快速决策", "追求效率"},
		Strengths:       []string{"领导力", "组织能力", "战略规划", "决策果断"},
		GrowthAreas:     []string{"耐心倾听", "细节关注", "情感考虑"},
	},
	"INFP": {
		SuitableCareers: []string{"UX设计师", "内容创作者", "心理咨询师", "品牌策划", "产品设计"},
		WorkStyle:       []string{"创意工作", "价值驱动", "灵活自主", "深度思考"},
		Strengths:       []string{"创造力", "同理心", "价值观清晰", "适应能力"},
		GrowthAreas:     []string{"执行力", "时间管理", "批判性思维"},
	},
	"ENFP": {
		SuitableCareers: []string{"市场营销", "公关", "培训师", "创意总监", "用户增长"},
		WorkStyle:       []string{"团队协作", "创新思维", "人际互动", "多样化工作"},
		Strengths:       []string{"热情洋溢", "沟通能力", "创新思维", "激励他人"},
		GrowthAreas:     []string{"专注力", "完成任务", "细节管理"},
	},
	"ISTJ": {
		SuitableCareers: []string{"会计", "审计", "质量管理", "数据分析师", "运维工程师"},
		WorkStyle:       []string{"结构化", "细节导向", "规则遵守", "可靠稳定"},
		Strengths:       []string{"责任心强", "注重细节", "执行力强", "稳定可靠"},
		GrowthAreas:     []string{"创新思维", "灵活性", "大局观"},
	},
	"ESTJ": {
		SuitableCareers: []string{"运营经理", "项目经理", "生产管理", "行政管理", "销售经理"},
		WorkStyle:       []string{"组织管理", "高效执行", "结果导向", "团队领导"},
		Strengths:       []string{"组织能力", "执行力", "管理能力", "决策力"},
		GrowthAreas:     []string{"创新思维", "情感智商", "变通能力"},
	},
	"ISFP": {
		SuitableCareers: []string{"设计师", "艺术家", "摄影师", "美工", "手工艺人"},
		WorkStyle:       []string{"创意表达", "自由灵活", "实际动手", "审美追求"},
		Strengths:       []string{"审美能力", "灵活适应", "友善温和", "实践能力"},
		GrowthAreas:     []string{"长期规划", "理论学习", "竞争意识"},
	},
	"ESFP": {
		SuitableCareers: []string{"销售", "活动策划", "客服", "表演者", "培训师"},
		WorkStyle:       []string{"人际互动", "活力充沛", "即兴发挥", "享受过程"},
		Strengths:       []string{"社交能力", "乐观积极", "适应力强", "现场应变"},
		GrowthAreas:     []string{"长期规划", "深度思考", "理论学习"},
	},
	"INTP": {
		SuitableCareers: []string{"研究员", "算法工程师", "哲学/逻辑相关", "技术写作", "顾问"},
		WorkStyle:       []string{"深度分析", "理论推演", "独立研究", "逻辑严谨"},
		Strengths:       []string{"逻辑思维", "抽象能力", "客观分析", "创新理论"},
		GrowthAreas:     []string{"执行力", "人际沟通", "时间与计划"},
	},
	"ENTP": {
		SuitableCareers: []string{"创业", "产品经理", "律师", "咨询", "创新策划"},
		WorkStyle:       []string{"辩论与探索", "多方案尝试", "挑战成规", "快速迭代"},
		Strengths:       []string{"辩论与说服", "创意与变通", "抗压", "多线程"},
		GrowthAreas:     []string{"落实细节", "坚持执行", "情绪稳定性"},
	},
	"INFJ": {
		SuitableCareers: []string{"心理咨询", "人力资源", "写作/编辑", "社会创新", "教育"},
		WorkStyle:       []string{"价值驱动", "深度共情", "长期主义", "系统关怀"},
		Strengths:       []string{"洞察人与动机", "坚持信念", "整合信息", "助人成长"},
		GrowthAreas:     []string{"边界感", "拒绝与取舍", "现实落地"},
	},
	"ENFJ": {
		SuitableCareers: []string{"培训师", "HR", "公关", "教育管理", "团队教练"},
		WorkStyle:       []string{"带动他人", "愿景传达", "关系建设", "激励与赋能"},
		Strengths:       []string{"感染力", "共情与协调", "责任心", "组织凝聚力"},
		GrowthAreas:     []string{"自我边界", "接受批评", "独处与复盘"},
	},
	"ISTP": {
		SuitableCareers: []string{"工程师", "技工", "飞行员", "运维", "竞技/实操类"},
		WorkStyle:       []string{"动手实践", "冷静应对", "工具与机制", "少废话多做事"},
		Strengths:       []string{"动手能力", "临场应变", "客观冷静", "机械/逻辑直觉"},
		GrowthAreas:     []string{"长期规划", "情感表达", "理论抽象"},
	},
	"ESTP": {
		SuitableCareers: []string{"销售", "创业", "应急管理", "体育/竞技", "商务拓展"},
		WorkStyle:       []string{"现场决策", "冒险与尝试", "人际斡旋", "结果导向"},
		Strengths:       []string{"应变与胆识", "说服力", "观察细节", "行动力"},
		GrowthAreas:     []string{"长远规划", "理论沉淀", "规则与合规"},
	},
	"ISFJ": {
		SuitableCareers: []string{"医护", "行政", "教育", "客户支持", "档案与合规"},
		WorkStyle:       []string{"细致可靠", "支持他人", "按流程办事", "维护和谐"},
		Strengths:       []string{"责任心", "细节与记忆", "忠诚", "务实关怀"},
		GrowthAreas:     []string{"拒绝与边界", "变化适应", "自我主张"},
	},
	"ESFJ": {
		SuitableCareers: []string{"HR", "活动组织", "客户关系", "社区/运营", "教育"},
		WorkStyle:       []string{"照顾他人", "维护氛围", "协作与仪式感", "明确角色"},
		Strengths:       []string{"热心与体贴", "组织活动", "沟通协调", "稳定团队"},
		GrowthAreas:     []string{"接受冲突", "理性取舍", "独处与自我"},
	},
}

// CareerMatchFor looks up the career table. Non-standard types get a generic entry.
func CareerMatchFor(mbtiType string) CareerMatch {
	if len(mbtiType) != 4 {
		return defaultCareer
	}
	if match, ok := careerMatches[strings.ToUpper(mbtiType)]; ok {
		return match
	}
	return defaultCareer
}
