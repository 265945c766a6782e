// Package meta holds the fixed selection lists and calendar helpers shared
// by the leave and travel forms.
package meta

// WorkGroups are the organizational units a submission can be filed under.
var WorkGroups = []string{
	"กลุ่มโรคติดต่อ",
	"กลุ่มระบาดวิทยาและตอบโต้ภาวะฉุกเฉิน",
	"กลุ่มพัฒนาองค์กร",
	"กลุ่มบริหารทั่วไป",
	"กลุ่มโรคไม่ติดต่อ",
	"กลุ่มโรคติดต่อเรื้อรัง",
	"กลุ่มห้องปฏิบัติการทางการแพทย์",
	"กลุ่มพัฒนานวัตกรรมและวิจัย",
	"ศูนย์ควบคุมโรคติดต่อนำโดยแมลงที่ 9.1 จ.ชัยภูมิ",
	"ศูนย์ควบคุมโรคติดต่อนำโดยแมลงที่ 9.2 จ.บุรีรัมย์",
	"ศูนย์ควบคุมโรคติดต่อนำโดยแมลงที่ 9.3 จ.สุรินทร์",
	"ศูนย์ควบคุมโรคติดต่อนำโดยแมลงที่ 9.4 ปากช่อง",
	"ด่านควบคุมโรคช่องจอม จ.สุรินทร์",
	"ศูนย์บริการเวชศาสตร์ป้องกัน",
	"กลุ่มสื่อสารความเสี่ยง",
	"กลุ่มโรคจากการประกอบอาชีพและสิ่งแวดล้อม",
}

// IsWorkGroup reports whether name is one of WorkGroups.
func IsWorkGroup(name string) bool {
	for _, g := range WorkGroups {
		if g == name {
			return true
		}
	}
	return false
}

// Attachment extensions accepted on leave and travel submissions.
var AttachmentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

// MaxAttachmentSize is the largest accepted attachment, in bytes.
const MaxAttachmentSize = 10 << 20
