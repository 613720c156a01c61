package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Case holds the structure for the cases collection in mongo
type Case struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details CaseDetails        `json:"case" bson:"case"`
	Version int32              `json:"__v" bson:"__v"`
}

// CaseDetails holds the structure for the inner case structure as defined in
// the cases collection. Several concepts carry legacy aliases written by
// older versions of the forms; casefile.FromModel resolves them.
type CaseDetails struct {
	// Identity: caseNo and year are unique together
	CaseNo        string `json:"caseNo" bson:"caseNo"`
	Year          int    `json:"year" bson:"year"`
	PoliceStation string `json:"policeStation" bson:"policeStation"`
	CrimeHead     string `json:"crimeHead" bson:"crimeHead"`
	Section       string `json:"section" bson:"section"`

	PunishmentCategory  string `json:"punishmentCategory" bson:"punishmentCategory"` // "≤7 yrs", ">7 yrs"
	CaseStatus          string `json:"caseStatus" bson:"caseStatus"`                 // "Disposed", "Under investigation"
	InvestigationStatus string `json:"investigationStatus" bson:"investigationStatus"`
	Priority            string `json:"priority" bson:"priority"`
	SrNsr               string `json:"srNsr" bson:"srNsr"`
	Reason              string `json:"reason" bson:"reason"`

	// Chargesheet
	ChargesheetDeadlineType        string `json:"chargesheetDeadlineType" bson:"chargesheetDeadlineType"` // "60", "90"
	FinalChargesheetSubmitted      bool   `json:"finalChargesheetSubmitted" bson:"finalChargesheetSubmitted"`
	FinalChargesheetSubmissionDate Date   `json:"finalChargesheetSubmissionDate" bson:"finalChargesheetSubmissionDate,omitempty"`

	// DecisionPendingStatus overrides the status derived from the accused
	DecisionPendingStatus string `json:"decisionPendingStatus,omitempty" bson:"decisionPendingStatus,omitempty"`

	// Reports, modern shape
	SPReports  []ReportEntry `json:"spReports,omitempty" bson:"spReports,omitempty"`
	DSPReports []ReportEntry `json:"dspReports,omitempty" bson:"dspReports,omitempty"`

	// Reports, legacy shape
	R1  Date `json:"r1" bson:"r1,omitempty"`
	R2  Date `json:"r2" bson:"r2,omitempty"`
	R3  Date `json:"r3" bson:"r3,omitempty"`
	PR1 Date `json:"pr1" bson:"pr1,omitempty"`
	PR2 Date `json:"pr2" bson:"pr2,omitempty"`
	PR3 Date `json:"pr3" bson:"pr3,omitempty"`

	ProsecutionSanction *Sanction       `json:"prosecutionSanction,omitempty" bson:"prosecutionSanction,omitempty"`
	FSL                 []FSLEntry      `json:"fsl,omitempty" bson:"fsl,omitempty"`
	InjuryReport        *MedicalRecord  `json:"injuryReport,omitempty" bson:"injuryReport,omitempty"`
	PMReport            *MedicalRecord  `json:"pmReport,omitempty" bson:"pmReport,omitempty"`
	Compensation        *Compensation   `json:"compensation,omitempty" bson:"compensation,omitempty"`
	Accused             []Accused       `json:"accused" bson:"accused"`
	Attachments         []FileReference `json:"attachments,omitempty" bson:"attachments,omitempty"`

	CreatedBy string             `json:"createdBy" bson:"createdBy"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Accused holds a single accused person named in a case
type Accused struct {
	Name       string `json:"name" bson:"name"`
	FatherName string `json:"fatherName,omitempty" bson:"fatherName,omitempty"`
	Age        int    `json:"age,omitempty" bson:"age,omitempty"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`

	// Status may hold any value ever written: "Arrested", "True", "False",
	// "Not Arrested", "Decision Pending", ...
	Status     string `json:"status" bson:"status"`
	ArrestDate Date   `json:"arrestDate" bson:"arrestDate,omitempty"`

	Notice41A    *ProcessRecord `json:"notice41A,omitempty" bson:"notice41A,omitempty"`
	Warrant      *ProcessRecord `json:"warrant,omitempty" bson:"warrant,omitempty"`
	Proclamation *ProcessRecord `json:"proclamation,omitempty" bson:"proclamation,omitempty"`
	Attachment   *ProcessRecord `json:"attachment,omitempty" bson:"attachment,omitempty"`
}

// ProcessRecord is a boolean gated procedural record on an accused. The 41A
// notice is gated by Issued, the others by Prayed.
type ProcessRecord struct {
	Issued        bool           `json:"issued" bson:"issued"`
	Prayed        bool           `json:"prayed" bson:"prayed"`
	PrayerDate    Date           `json:"prayerDate" bson:"prayerDate,omitempty"`
	ReceiptDate   Date           `json:"receiptDate" bson:"receiptDate,omitempty"`
	ExecutionDate Date           `json:"executionDate" bson:"executionDate,omitempty"`
	ReturnDate    Date           `json:"returnDate" bson:"returnDate,omitempty"`
	File          *FileReference `json:"file,omitempty" bson:"file,omitempty"`
}

// ReportEntry is a single SP or DSP report
type ReportEntry struct {
	Label string         `json:"label" bson:"label"`
	Date  Date           `json:"date" bson:"date,omitempty"`
	File  *FileReference `json:"file" bson:"file,omitempty"`
}

// Sanction holds the prosecution sanction sub-record
type Sanction struct {
	Prayed      bool           `json:"prayed" bson:"prayed"`
	PrayerDate  Date           `json:"prayerDate" bson:"prayerDate,omitempty"`
	ReceiptDate Date           `json:"receiptDate" bson:"receiptDate,omitempty"`
	Authority   string         `json:"authority,omitempty" bson:"authority,omitempty"`
	File        *FileReference `json:"file,omitempty" bson:"file,omitempty"`
}

// FSLEntry is a forensic science laboratory exhibit
type FSLEntry struct {
	Sent         bool           `json:"sent" bson:"sent"`
	Exhibit      string         `json:"exhibit" bson:"exhibit"`
	SentDate     Date           `json:"sentDate" bson:"sentDate,omitempty"`
	ReportDate   Date           `json:"reportDate" bson:"reportDate,omitempty"`
	ReportResult string         `json:"reportResult,omitempty" bson:"reportResult,omitempty"`
	File         *FileReference `json:"file,omitempty" bson:"file,omitempty"`
}

// MedicalRecord holds an injury or post mortem report
type MedicalRecord struct {
	Received bool           `json:"received" bson:"received"`
	Date     Date           `json:"date" bson:"date,omitempty"`
	Remarks  string         `json:"remarks,omitempty" bson:"remarks,omitempty"`
	File     *FileReference `json:"file,omitempty" bson:"file,omitempty"`
}

// Compensation holds the victim compensation sub-record
type Compensation struct {
	Proposed bool           `json:"proposed" bson:"proposed"`
	Date     Date           `json:"date" bson:"date,omitempty"`
	Amount   float64        `json:"amount,omitempty" bson:"amount,omitempty"`
	File     *FileReference `json:"file,omitempty" bson:"file,omitempty"`
}

// FileReference is the handle returned by the file storage provider
type FileReference struct {
	PublicID         string `json:"public_id" bson:"public_id"`
	SecureURL        string `json:"secure_url" bson:"secure_url"`
	URL              string `json:"url" bson:"url"`
	OriginalFilename string `json:"original_filename" bson:"original_filename"`
	Format           string `json:"format" bson:"format"`
	Bytes            int    `json:"bytes" bson:"bytes"`
}
