// Package naming builds the source_id and title of every content node role.
//
// Every function is pure: the same lesson data always yields the same ids,
// so re-running the scrape step on unchanged source data reproduces an
// identical content tree. The table below is the reference for the ids
// (N is the numeric lesson id, T a title, F a file name, V a video label):
//
//	role                  source_id                              title
//	topic                 mit_blossoms_T                         T
//	cluster               mit_blossoms_T                         T
//	lesson                node-N                                 T
//	video                 node-N:V                               V: T
//	transcripts folder    <lesson url>#lesson-detail-tab-transcript     Transcripts
//	transcript            node-N:F                               <slug>: <doc title>
//	additional resources  node-N:Additional_Resources            Additional Resources for T
//	teachers folder       <lesson url>#lesson-detail-tab-teacher_guide  For Teachers
//	teachers doc          node-N:F                               <slug>: <doc title>
package naming

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// TopicPrefix prefixes topic and cluster source ids.
	TopicPrefix = "mit_blossoms_"

	// Author is credited on folders created by the chef itself.
	Author = "MIT Blossoms"

	// SlugLength is the number of title characters kept in a slug.
	SlugLength = 20

	// TranscriptsTitle is the title of the per-lesson transcripts folder.
	TranscriptsTitle = "Transcripts"

	// TeachersTitle is the title of the per-lesson teacher guide folder.
	TeachersTitle = "For Teachers"

	// TeachersDescription describes the per-lesson teacher guide folder.
	TeachersDescription = "Additional resources for teachers."

	// AdditionalResourcesDescription describes the additional resources app.
	AdditionalResourcesDescription = "Additional resources and links."

	transcriptTab = "#lesson-detail-tab-transcript"
	teachersTab   = "#lesson-detail-tab-teacher_guide"
)

// LessonID is the site-assigned numeric id of a lesson.
type LessonID int

// String returns the identity marker form "node-N".
func (id LessonID) String() string {
	return "node-" + strconv.Itoa(int(id))
}

// TopicID returns the source id of a topic.
func TopicID(title string) string {
	return TopicPrefix + title
}

// TopicDescription returns the description of a topic.
func TopicDescription(title string) string {
	return "Video lessons about " + title
}

// ClusterID returns the source id of a cluster. Clusters and topics share
// the same id space.
func ClusterID(title string) string {
	return TopicPrefix + title
}

// ClusterDescription returns the description of a cluster.
func ClusterDescription(title string) string {
	return "Video lessons from the cluster " + title
}

// IsGroupID reports whether sourceID names a topic or cluster folder.
func IsGroupID(sourceID string) bool {
	return strings.HasPrefix(sourceID, TopicPrefix)
}

// IsLessonID reports whether sourceID is a lesson container id ("node-N").
func IsLessonID(sourceID string) bool {
	n, ok := strings.CutPrefix(sourceID, "node-")
	if !ok || n == "" {
		return false
	}
	_, err := strconv.Atoi(n)
	return err == nil
}

// LessonSourceID returns the source id of a lesson container.
func LessonSourceID(id LessonID) string {
	return id.String()
}

// VideoID returns the source id of one language variant of a lesson video.
func VideoID(id LessonID, label string) string {
	return id.String() + ":" + label
}

// VideoTitle returns the title of one language variant of a lesson video.
func VideoTitle(label, lessonTitle string) string {
	return label + ": " + lessonTitle
}

// TranscriptsFolderID returns the source id of a lesson's transcripts folder.
func TranscriptsFolderID(lessonURL string) string {
	return lessonURL + transcriptTab
}

// TranscriptID returns the source id of a transcript document.
func TranscriptID(id LessonID, fileName string) string {
	return id.String() + ":" + fileName
}

// AdditionalResourcesID returns the source id of the additional resources app.
func AdditionalResourcesID(id LessonID) string {
	return id.String() + ":Additional_Resources"
}

// AdditionalResourcesTitle returns the title of the additional resources app.
func AdditionalResourcesTitle(lessonTitle string) string {
	return "Additional Resources for " + lessonTitle
}

// TeachersFolderID returns the source id of a lesson's teacher guide folder.
func TeachersFolderID(lessonURL string) string {
	return lessonURL + teachersTab
}

// TeachersDocID returns the source id of a teacher guide document.
func TeachersDocID(id LessonID, fileName string) string {
	return id.String() + ":" + fileName
}

// Slug shortens a lesson title to SlugLength characters followed by "..".
func Slug(title string) string {
	if utf8.RuneCountInString(title) > SlugLength {
		title = string([]rune(title)[:SlugLength])
	}
	return title + ".."
}

// DocumentTitle returns the title of a transcript or teacher guide document.
func DocumentTitle(lessonTitle, docTitle string) string {
	return Slug(lessonTitle) + ": " + docTitle
}
