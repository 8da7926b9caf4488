package services

import "time"

var _ InfoService = (*infoService)(nil)

type infoService struct {
	version   string
	startTime time.Time
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, startTime time.Time) *infoService {
	return &infoService{version: version, startTime: startTime}
}

func (s *infoService) GetInfo() Info {
	return Info{
		Version:     s.version,
		UptimeSince: s.startTime,
	}
}
