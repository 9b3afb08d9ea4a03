package prompt

// Summary corrects likely mis-transcriptions and summarizes a transcript in
// its original language mix.
var Summary = Template{
	Name: "summary",
	System: "You are a helpful assistant specialized in understanding and summarizing mixed {{languages}} content, " +
		"with expertise in fixing common transcription errors in these languages.",
	User: `You are an expert in understanding and summarizing mixed {{languages}} transcriptions.
The following is a transcription of an audio recording that may contain several of these languages,
with possible transcription errors. Please:

1. Read and understand the context of the conversation
2. Identify any unclear or mistranscribed words and make appropriate corrections based on context
3. Provide a coherent summary in the same language mix as the original
4. Maintain the original meaning while fixing any obvious transcription errors
5. Format properly. Use appropriate punctuation and line breaks as needed.

Here is the full transcription:

{{transcript}}

Please provide a clear and accurate summary, maintaining the same language mix as the original. Write only the summary, nothing else.
Summary:`,
}

// PartialSummary condenses one part of a transcript too long for a single call.
var PartialSummary = Template{
	Name:   "partial_summary",
	System: Summary.System,
	User: `The following is part {{part}} of {{parts}} of a longer audio transcription in mixed {{languages}},
with possible transcription errors. Correct obvious mistranscriptions from context and write a dense
summary of this part only, in the same language mix. Keep names, numbers and decisions.

{{transcript}}

Write only the summary of this part, nothing else.`,
}

// CombineSummaries merges partial summaries into the final summary.
var CombineSummaries = Template{
	Name:   "combine_summaries",
	System: Summary.System,
	User: `The following are summaries of consecutive parts of one audio recording in mixed {{languages}}.
Merge them into one coherent summary in the same language mix as the original, removing repetition
and keeping the order of events. Format properly with punctuation and line breaks.

{{summaries}}

Write only the final summary, nothing else.
Summary:`,
}
