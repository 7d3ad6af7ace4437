package server

// Server объединяет HTTP-серверы отдельных сущностей: каталог, разбор и служебные ручки.
type Server struct {
	GiftServer
	ParseServer
	SystemServer
}

func NewServer(
	giftServer GiftServer,
	parseServer ParseServer,
	systemServer SystemServer,
) Server {
	return Server{
		GiftServer:   giftServer,
		ParseServer:  parseServer,
		SystemServer: systemServer,
	}
}
