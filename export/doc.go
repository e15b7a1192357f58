// Package export renders transcripts as downloadable TXT or DOCX artifacts.
//
// TXT output is one "[MM:SS] Speaker: text" line per turn, joined by "\n",
// and reads back through transcript.Parse. DOCX output holds one paragraph
// per turn with the speaker in bold.
package export
