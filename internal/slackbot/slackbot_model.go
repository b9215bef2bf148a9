package slackbot

// Alert는 관리자 채널로 보내는 알림 한 건입니다.
type Alert struct {
	Title  string  // 알림창에 표시되는 본문
	Color  string  // attachment 색상 (예: "#f2c744")
	Fields []Field // attachment 필드
}

type Field struct {
	Title string
	Value string
	Short bool
}
