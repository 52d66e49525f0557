package ports

type EventBus interface {
	Publish(topic string, payload []byte)
	Subscribe() (ch <-chan Event, cancel func())
}

type Event struct {
	Topic   string
	Payload []byte
}

const (
	TopicComplementPublished = "complement.published"
	TopicLessonCompleted     = "lesson.completed"
	TopicLessonUncompleted   = "lesson.uncompleted"
	TopicBannerUpdated       = "banner.updated"
	TopicCourseUpdated       = "course.updated"
)
