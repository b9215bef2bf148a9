package ranking

// fallbackRankings는 API 호출이 실패했을 때 저장하는 기본 순위입니다.
var fallbackRankings = []Ranking{
	{RankNo: 1, AreaCode: "11", AreaName: "서울", SpotName: "경복궁", Category: "역사관광지", VisitCount: 1250000},
	{RankNo: 2, AreaCode: "39", AreaName: "제주", SpotName: "성산일출봉", Category: "자연관광지", VisitCount: 1080000},
	{RankNo: 3, AreaCode: "26", AreaName: "부산", SpotName: "해운대해수욕장", Category: "자연관광지", VisitCount: 990000},
	{RankNo: 4, AreaCode: "11", AreaName: "서울", SpotName: "롯데월드", Category: "테마공원", VisitCount: 940000},
	{RankNo: 5, AreaCode: "41", AreaName: "경기", SpotName: "에버랜드", Category: "테마공원", VisitCount: 910000},
	{RankNo: 6, AreaCode: "47", AreaName: "경북", SpotName: "불국사", Category: "역사관광지", VisitCount: 720000},
	{RankNo: 7, AreaCode: "26", AreaName: "부산", SpotName: "감천문화마을", Category: "문화관광지", VisitCount: 680000},
	{RankNo: 8, AreaCode: "51", AreaName: "강원", SpotName: "설악산국립공원", Category: "자연관광지", VisitCount: 650000},
	{RankNo: 9, AreaCode: "45", AreaName: "전북", SpotName: "전주한옥마을", Category: "문화관광지", VisitCount: 610000},
	{RankNo: 10, AreaCode: "39", AreaName: "제주", SpotName: "우도", Category: "자연관광지", VisitCount: 580000},
	{RankNo: 11, AreaCode: "11", AreaName: "서울", SpotName: "N서울타워", Category: "랜드마크", VisitCount: 560000},
	{RankNo: 12, AreaCode: "28", AreaName: "인천", SpotName: "월미도", Category: "자연관광지", VisitCount: 520000},
	{RankNo: 13, AreaCode: "46", AreaName: "전남", SpotName: "순천만습지", Category: "생태관광지", VisitCount: 500000},
	{RankNo: 14, AreaCode: "51", AreaName: "강원", SpotName: "남이섬", Category: "자연관광지", VisitCount: 470000},
	{RankNo: 15, AreaCode: "48", AreaName: "경남", SpotName: "통영케이블카", Category: "레저", VisitCount: 430000},
	{RankNo: 16, AreaCode: "41", AreaName: "경기", SpotName: "수원화성", Category: "역사관광지", VisitCount: 410000},
	{RankNo: 17, AreaCode: "46", AreaName: "전남", SpotName: "여수 해상케이블카", Category: "레저", VisitCount: 390000},
	{RankNo: 18, AreaCode: "30", AreaName: "대전", SpotName: "성심당 본점", Category: "음식", VisitCount: 370000},
	{RankNo: 19, AreaCode: "27", AreaName: "대구", SpotName: "이월드", Category: "테마공원", VisitCount: 340000},
	{RankNo: 20, AreaCode: "43", AreaName: "충북", SpotName: "단양 도담삼봉", Category: "자연관광지", VisitCount: 310000},
}
