// README: Keyword tables for the request classifier (traditional and simplified variants).
package classifier

import "itinera/internal/modules/slots"

// templateKeywords mark a request to reuse a saved plan (type D).
var templateKeywords = []string{
	"模板", "模版", "套用", "跟上次一样", "跟上次一樣", "照上次", "沿用上次", "和上次一样", "和上次一樣",
}

// destinationKeywords is the exact city/region list; matches score higher than pattern captures.
var destinationKeywords = []string{
	// Taiwan
	"台北", "臺北", "新北", "基隆", "桃園", "新竹", "台中", "臺中", "台南", "臺南", "高雄", "屏東", "墾丁",
	"宜蘭", "花蓮", "台東", "臺東", "南投", "日月潭", "阿里山", "嘉義", "澎湖", "金門", "馬祖", "九份", "淡水",
	// Japan
	"東京", "东京", "大阪", "京都", "奈良", "神戶", "神户", "橫濱", "横滨", "名古屋", "福岡", "福冈",
	"札幌", "北海道", "沖繩", "冲绳", "箱根", "鎌倉", "镰仓", "富士山", "輕井澤", "轻井泽", "金澤", "金泽", "廣島", "广岛",
	// Korea
	"首爾", "首尔", "釜山", "濟州", "济州",
	// Greater China
	"香港", "澳門", "澳门", "上海", "北京", "杭州", "蘇州", "苏州", "南京", "成都", "重慶", "重庆", "西安",
	"廣州", "广州", "深圳", "廈門", "厦门", "三亞", "三亚", "桂林", "麗江", "丽江", "大理", "青島", "青岛", "長沙", "长沙",
	// Southeast Asia
	"曼谷", "清邁", "清迈", "普吉島", "普吉岛", "新加坡", "吉隆坡", "峇里島", "巴厘岛", "胡志明", "河內", "河内",
	"峴港", "岘港", "馬尼拉", "马尼拉", "宿霧", "宿务",
	// Elsewhere
	"巴黎", "倫敦", "伦敦", "羅馬", "罗马", "巴塞隆納", "巴塞罗那", "紐約", "纽约", "洛杉磯", "洛杉矶",
	"舊金山", "旧金山", "雪梨", "悉尼", "墨爾本", "墨尔本", "杜拜", "迪拜", "伊斯坦堡", "伊斯坦布尔",
}

// destinationFillers are stripped from the front of pattern captures.
var destinationFillers = []string{
	"我們", "我们", "我想", "想要", "幫我", "帮我", "規劃", "规划", "安排", "一個", "一个", "一趟",
	"下個月", "下个月", "這個月", "这个月", "下週", "下周", "明年", "明天", "後天", "后天", "今天",
	"週末", "周末", "我", "想", "要", "去", "個", "个", "趟",
}

// destinationRejects disqualify a pattern capture outright.
var destinationRejects = []string{"哪", "旅", "地方", "那裡", "那里", "某地", "外地", "國外", "国外", "旅遊", "旅游", "旅行"}

// namedDurations is the fixed table of duration words.
var namedDurations = []struct {
	Keyword string
	Days    int
}{
	{"長週末", 3}, {"长周末", 3},
	{"週末", 2}, {"周末", 2},
	{"一星期", 7}, {"一週", 7}, {"一周", 7},
	{"明天", 1}, {"今天", 1}, {"當天來回", 1}, {"当天来回", 1},
}

// durationHints only suggest a duration; they never reach the signal threshold.
var durationHints = []struct {
	Keyword string
	Days    int
}{
	{"幾天", 3}, {"几天", 3}, {"小旅行", 2}, {"短途", 2},
}

var paceKeywords = map[slots.Pace][]string{
	slots.PaceRelaxed:  {"放鬆", "放松", "悠閒", "悠闲", "慢活", "慢慢", "休閒", "休闲", "輕鬆", "轻松", "度假", "chill"},
	slots.PaceTight:    {"緊湊", "紧凑", "特種兵", "特种兵", "充實", "充实", "趕行程", "赶行程", "多跑", "暴走"},
	slots.PaceModerate: {"適中", "适中", "剛好", "刚好", "正常節奏", "正常节奏"},
}

var walkingKeywords = map[slots.WalkingLevel][]string{
	slots.WalkingLow:  {"少走路", "不想走", "走不動", "走不动", "長輩", "长辈", "推車", "推车", "腳痛", "脚痛"},
	slots.WalkingHigh: {"多走", "健行", "爬山", "徒步", "登山", "city walk"},
}

var budgetKeywords = map[slots.BudgetLevel][]string{
	slots.BudgetLow:    {"省錢", "省钱", "便宜", "窮遊", "穷游", "小資", "小资", "預算有限", "预算有限", "平價", "平价"},
	slots.BudgetHigh:   {"奢華", "奢华", "豪華", "豪华", "高級", "高级", "五星", "米其林"},
	slots.BudgetMedium: {"預算中等", "预算中等", "中等預算", "中等预算"},
}

var transportKeywords = map[slots.TransportPreference][]string{
	slots.TransportPublic:  {"地鐵", "地铁", "捷運", "捷运", "公車", "公交", "大眾運輸", "大众交通", "電車", "电车", "火車", "火车"},
	slots.TransportDriving: {"自駕", "自驾", "開車", "开车", "租車", "租车"},
	slots.TransportTaxi:    {"計程車", "计程车", "出租車", "出租车", "打車", "打车", "叫車", "叫车", "uber"},
	slots.TransportWalking: {"步行", "散步", "走路"},
}

var interestKeywords = map[string][]string{
	"food":      {"美食", "小吃", "餐廳", "餐厅", "夜市", "好吃", "吃"},
	"culture":   {"博物館", "博物馆", "寺", "神社", "古蹟", "古迹", "文化", "歷史", "历史", "老街"},
	"nature":    {"自然", "公園", "公园", "海邊", "海边", "風景", "风景", "森林", "溫泉", "温泉", "山"},
	"shopping":  {"購物", "购物", "逛街", "商場", "商场", "百貨", "百货", "outlet", "買", "买"},
	"nightlife": {"酒吧", "夜生活", "夜景", "居酒屋"},
	"art":       {"美術館", "美术馆", "藝術", "艺术", "展覽", "展览", "畫廊", "画廊"},
	"family":    {"親子", "亲子", "小孩", "樂園", "乐园", "動物園", "动物园", "迪士尼"},
	"photo":     {"拍照", "網美", "网红", "打卡", "攝影", "摄影"},
}

// walking-level and pace tables are ordered by specificity when matched.
var (
	paceOrder      = []slots.Pace{slots.PaceRelaxed, slots.PaceTight, slots.PaceModerate}
	walkingOrder   = []slots.WalkingLevel{slots.WalkingLow, slots.WalkingHigh}
	budgetOrder    = []slots.BudgetLevel{slots.BudgetLow, slots.BudgetHigh, slots.BudgetMedium}
	transportOrder = []slots.TransportPreference{slots.TransportDriving, slots.TransportTaxi, slots.TransportPublic, slots.TransportWalking}
)

var (
	onlyMorningKeywords   = []string{"只有上午", "只有早上", "僅上午", "仅上午", "上午有空", "早上有空"}
	onlyAfternoonKeywords = []string{"只有下午", "僅下午", "仅下午", "下午有空", "下午才"}
	onlyEveningKeywords   = []string{"只有晚上", "僅晚上", "仅晚上", "晚上有空", "晚上才"}
)
